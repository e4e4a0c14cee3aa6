package domain

import (
	"fmt"
	"time"
)

// AuthFlag names one of the four CRUD permission flags of a menu.
type AuthFlag string

const (
	AuthRead   AuthFlag = "read"
	AuthWrite  AuthFlag = "write"
	AuthEdit   AuthFlag = "edit"
	AuthDelete AuthFlag = "delete"
)

// ParseAuthFlag accepts both the short flag names and the backend's field
// names (readAuth, writeAuth, ...).
func ParseAuthFlag(s string) (AuthFlag, error) {
	switch s {
	case "read", "readAuth":
		return AuthRead, nil
	case "write", "writeAuth":
		return AuthWrite, nil
	case "edit", "editAuth":
		return AuthEdit, nil
	case "delete", "deleteAuth":
		return AuthDelete, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAuthFlag, s)
}

// MenuAuth holds the CRUD flags of one (user, menu) pair.
type MenuAuth struct {
	Read   bool `json:"readAuth"`
	Write  bool `json:"writeAuth"`
	Edit   bool `json:"editAuth"`
	Delete bool `json:"deleteAuth"`
}

// AllowAll grants every flag.
func AllowAll() MenuAuth {
	return MenuAuth{Read: true, Write: true, Edit: true, Delete: true}
}

// DenyAll grants nothing. It is the fallback when auth cannot be fetched.
func DenyAll() MenuAuth {
	return MenuAuth{}
}

// Has reports whether flag is granted. Unknown flags are never granted.
func (a MenuAuth) Has(flag AuthFlag) bool {
	switch flag {
	case AuthRead:
		return a.Read
	case AuthWrite:
		return a.Write
	case AuthEdit:
		return a.Edit
	case AuthDelete:
		return a.Delete
	}
	return false
}

// ViewOnly reports read access without any mutating flag.
func (a MenuAuth) ViewOnly() bool {
	return a.Read && !a.Write && !a.Edit && !a.Delete
}

// PermissionEntry is a cached MenuAuth with the time it was fetched.
type PermissionEntry struct {
	UserID   int64     `json:"userId"`
	MenuID   int64     `json:"menuId"`
	Auth     MenuAuth  `json:"auth"`
	CachedAt time.Time `json:"cachedAt"`
}

// Fresh reports whether the entry may still be used at now.
func (e PermissionEntry) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.CachedAt) < ttl
}

// MenuItem is the nested menu shape returned by the backend.
type MenuItem struct {
	MenuID   int64
	Code     string
	Name     string
	URL      string
	ParentID int64
	Auth     *MenuAuth
	Children []MenuItem
}

// MenuNode is one entry of a MenuTree. Parent and Children are indexes
// into the tree's arena; Parent is -1 for roots.
type MenuNode struct {
	MenuID   int64
	Code     string
	Name     string
	URL      string
	ParentID int64
	Auth     *MenuAuth
	Parent   int
	Children []int
}

// MenuTree is a read-only arena of menu nodes with lookup indexes built
// once at construction.
type MenuTree struct {
	nodes  []MenuNode
	roots  []int
	byID   map[int64]int
	byURL  map[string]int
	byCode map[string]int
}

// NewMenuTree flattens roots into an arena. Nodes are stored in
// depth-first pre-order and the first node seen for a given id, URL or code
// owns that index entry.
func NewMenuTree(roots []MenuItem) *MenuTree {
	t := &MenuTree{
		byID:   make(map[int64]int),
		byURL:  make(map[string]int),
		byCode: make(map[string]int),
	}
	for _, item := range roots {
		t.roots = append(t.roots, t.add(item, -1))
	}
	return t
}

func (t *MenuTree) add(item MenuItem, parent int) int {
	idx := len(t.nodes)
	t.nodes = append(t.nodes, MenuNode{
		MenuID:   item.MenuID,
		Code:     item.Code,
		Name:     item.Name,
		URL:      item.URL,
		ParentID: item.ParentID,
		Auth:     item.Auth,
		Parent:   parent,
	})

	if _, ok := t.byID[item.MenuID]; !ok {
		t.byID[item.MenuID] = idx
	}
	if item.URL != "" {
		if _, ok := t.byURL[item.URL]; !ok {
			t.byURL[item.URL] = idx
		}
	}
	if item.Code != "" {
		if _, ok := t.byCode[item.Code]; !ok {
			t.byCode[item.Code] = idx
		}
	}

	children := make([]int, 0, len(item.Children))
	for _, child := range item.Children {
		children = append(children, t.add(child, idx))
	}
	t.nodes[idx].Children = children

	return idx
}

// Len returns the number of nodes.
func (t *MenuTree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.nodes)
}

// FindByID returns the node with menuID, or nil.
func (t *MenuTree) FindByID(menuID int64) *MenuNode {
	if t == nil {
		return nil
	}
	if idx, ok := t.byID[menuID]; ok {
		return &t.nodes[idx]
	}
	return nil
}

// FindByURL returns the node routed at url, or nil.
func (t *MenuTree) FindByURL(url string) *MenuNode {
	if t == nil || url == "" {
		return nil
	}
	if idx, ok := t.byURL[url]; ok {
		return &t.nodes[idx]
	}
	return nil
}

// FindByCode returns the node with code, or nil.
func (t *MenuTree) FindByCode(code string) *MenuNode {
	if t == nil || code == "" {
		return nil
	}
	if idx, ok := t.byCode[code]; ok {
		return &t.nodes[idx]
	}
	return nil
}

// Roots returns the top-level nodes in backend order.
func (t *MenuTree) Roots() []*MenuNode {
	if t == nil {
		return nil
	}
	out := make([]*MenuNode, 0, len(t.roots))
	for _, idx := range t.roots {
		out = append(out, &t.nodes[idx])
	}
	return out
}

// Children returns the direct children of n.
func (t *MenuTree) Children(n *MenuNode) []*MenuNode {
	if t == nil || n == nil {
		return nil
	}
	out := make([]*MenuNode, 0, len(n.Children))
	for _, idx := range n.Children {
		out = append(out, &t.nodes[idx])
	}
	return out
}

// Depth returns how many ancestors n has.
func (t *MenuTree) Depth(n *MenuNode) int {
	depth := 0
	for p := n.Parent; p >= 0; p = t.nodes[p].Parent {
		depth++
	}
	return depth
}

// Walk visits every node in depth-first pre-order.
func (t *MenuTree) Walk(fn func(*MenuNode)) {
	if t == nil {
		return
	}
	for i := range t.nodes {
		fn(&t.nodes[i])
	}
}
