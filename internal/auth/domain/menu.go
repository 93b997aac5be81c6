package domain

import "time"

// MenuType classifies a navigation node.
type MenuType string

const (
	MenuTypeMenu    MenuType = "menu"
	MenuTypeSubmenu MenuType = "submenu"
	MenuTypeForm    MenuType = "form"
)

// Valid reports whether t is one of the known menu types.
func (t MenuType) Valid() bool {
	switch t {
	case MenuTypeMenu, MenuTypeSubmenu, MenuTypeForm:
		return true
	}
	return false
}

// Menu is a navigation node. Nodes form a tree through ParentID; a nil
// ParentID marks a root entry. Visibility is granted per role through the
// role_menus link table, never on the node itself.
type Menu struct {
	ID        string
	Name      string // 2-100 chars
	Icon      string // optional icon class or identifier
	Path      string // unique route path, lowercase
	Type      MenuType
	ParentID  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MenuEntry is the flat per-role view returned to clients. The caller
// reconstructs the tree from Parent links.
type MenuEntry struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Path   string  `json:"path"`
	Icon   string  `json:"icon,omitempty"`
	Type   string  `json:"type"`
	Parent *string `json:"parent"`
}
