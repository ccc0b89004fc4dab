package catalog

// DefaultComponent is served for challenges of courses the table does not
// know.
const DefaultComponent = "challenges/01-click-course/ClickChallenge.vue"

type componentRef struct {
	key  string
	path string
}

// componentTable maps challenge types (and titles) to the front-end component
// rendering them. Order matters: the first entry of a course is its fallback.
var componentTable = map[string][]componentRef{
	"click-course": {
		{"click", "challenges/01-click-course/ClickChallenge.vue"},
		{"Single click", "challenges/01-click-course/ClickChallenge.vue"},
		{"单击挑战", "challenges/01-click-course/ClickChallenge.vue"},
		{"double-click", "challenges/01-click-course/DoubleClickChallenge.vue"},
		{"Double click", "challenges/01-click-course/DoubleClickChallenge.vue"},
		{"双击挑战", "challenges/01-click-course/DoubleClickChallenge.vue"},
	},
	"drag-course": {
		{"file-drag", "challenges/02-drag-course/FileDragChallenge.vue"},
		{"Drag a file", "challenges/02-drag-course/FileDragChallenge.vue"},
		{"文件拖拽", "challenges/02-drag-course/FileDragChallenge.vue"},
		{"list-drag", "challenges/02-drag-course/ListDragChallenge.vue"},
		{"Reorder a list", "challenges/02-drag-course/ListDragChallenge.vue"},
		{"列表拖拽", "challenges/02-drag-course/ListDragChallenge.vue"},
	},
	"context-menu-course": {
		{"context-new-file", "challenges/03-context-menu-course/ContextMenuNewFileChallenge.vue"},
		{"右键菜单新建文档", "challenges/03-context-menu-course/ContextMenuNewFileChallenge.vue"},
		{"context-copy-paste", "challenges/03-context-menu-course/ContextMenuCopyPasteChallenge.vue"},
		{"右键菜单复制粘贴", "challenges/03-context-menu-course/ContextMenuCopyPasteChallenge.vue"},
		{"context-open", "challenges/03-context-menu-course/ContextMenuOpenChallenge.vue"},
		{"右键菜单打开", "challenges/03-context-menu-course/ContextMenuOpenChallenge.vue"},
	},
	"shortcut-course": {
		{"shortcut-copy-paste", "challenges/04-shortcut-course/ShortcutCopyPasteChallenge.vue"},
		{"快捷键复制粘贴", "challenges/04-shortcut-course/ShortcutCopyPasteChallenge.vue"},
		{"shortcut-select-all", "challenges/04-shortcut-course/ShortcutSelectAllChallenge.vue"},
		{"快捷键全选复制粘贴", "challenges/04-shortcut-course/ShortcutSelectAllChallenge.vue"},
	},
	"url-basics-course": {
		{"address-bar", "challenges/05-url-basics-course/AddressBarChallenge.vue"},
		{"浏览器地址栏识别", "challenges/05-url-basics-course/AddressBarChallenge.vue"},
		{"domain-identification", "challenges/05-url-basics-course/DomainIdentificationChallenge.vue"},
		{"URL一级域名识别", "challenges/05-url-basics-course/DomainIdentificationChallenge.vue"},
		{"suffix-identification", "challenges/05-url-basics-course/SuffixIdentificationChallenge.vue"},
		{"URL后缀识别", "challenges/05-url-basics-course/SuffixIdentificationChallenge.vue"},
		{"valid-url", "challenges/05-url-basics-course/ValidUrlChallenge.vue"},
		{"合法URL识别", "challenges/05-url-basics-course/ValidUrlChallenge.vue"},
	},
}

// ResolveComponent returns the component for a challenge. keys are tried in
// order (typically the challenge type, then its title); an unknown key falls
// back to the course's first component, an unknown course to
// DefaultComponent.
func ResolveComponent(courseID string, keys ...string) string {
	refs, ok := componentTable[courseID]
	if !ok || len(refs) == 0 {
		return DefaultComponent
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		for _, ref := range refs {
			if ref.key == key {
				return ref.path
			}
		}
	}
	return refs[0].path
}
