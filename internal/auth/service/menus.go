package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/flixtify/rolegate/internal/auth/domain"
	"github.com/flixtify/rolegate/internal/auth/store"
	"github.com/flixtify/rolegate/pkg/idx"
)

const (
	menuNameMinLen = 2
	menuNameMaxLen = 100

	// maxMenuDepth bounds the ancestor walk so a corrupted tree cannot
	// loop the cycle check forever.
	maxMenuDepth = 100
)

// MenuService is the administrative CRUD surface for navigation nodes.
type MenuService struct {
	Store store.Store
}

// MenuParams are the mutable fields of a menu node.
type MenuParams struct {
	Name     string
	Icon     string
	Path     string
	Type     domain.MenuType
	ParentID *string
}

func (s *MenuService) validateParams(ctx context.Context, p *MenuParams) error {
	p.Name = strings.TrimSpace(p.Name)
	if len(p.Name) < menuNameMinLen || len(p.Name) > menuNameMaxLen {
		return fmt.Errorf("%w: menu name must be %d-%d characters",
			ErrValidation, menuNameMinLen, menuNameMaxLen)
	}

	p.Path = strings.ToLower(strings.TrimSpace(p.Path))
	if p.Path == "" {
		return fmt.Errorf("%w: menu path is required", ErrValidation)
	}

	if !p.Type.Valid() {
		return fmt.Errorf("%w: unknown menu type %q", ErrValidation, p.Type)
	}

	if p.ParentID != nil {
		if _, err := s.Store.Menus().GetMenuByID(ctx, *p.ParentID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: parent menu does not exist", ErrValidation)
			}
			return err
		}
	}
	return nil
}

// Create adds a menu node. The path must be unique; duplicates surface as
// store.ErrAlreadyExists.
func (s *MenuService) Create(ctx context.Context, p MenuParams) (domain.Menu, error) {
	if err := s.validateParams(ctx, &p); err != nil {
		return domain.Menu{}, err
	}

	menu := domain.Menu{
		ID:       idx.New().String(),
		Name:     p.Name,
		Icon:     strings.TrimSpace(p.Icon),
		Path:     p.Path,
		Type:     p.Type,
		ParentID: p.ParentID,
	}
	if err := s.Store.Menus().CreateMenu(ctx, menu); err != nil {
		return domain.Menu{}, err
	}
	return menu, nil
}

// Get fetches one node by ID.
func (s *MenuService) Get(ctx context.Context, menuID string) (domain.Menu, error) {
	return s.Store.Menus().GetMenuByID(ctx, menuID)
}

// List returns every node.
func (s *MenuService) List(ctx context.Context) ([]domain.Menu, error) {
	return s.Store.Menus().ListMenus(ctx)
}

// Update mutates a node. A parent change is rejected when it would make the
// node its own ancestor, checked by walking the full ancestor chain rather
// than only the immediate self-parent case.
func (s *MenuService) Update(ctx context.Context, menuID string, p MenuParams) (domain.Menu, error) {
	menu, err := s.Store.Menus().GetMenuByID(ctx, menuID)
	if err != nil {
		return domain.Menu{}, err
	}

	if err := s.validateParams(ctx, &p); err != nil {
		return domain.Menu{}, err
	}

	if p.ParentID != nil {
		if err := s.checkNoCycle(ctx, menuID, *p.ParentID); err != nil {
			return domain.Menu{}, err
		}
	}

	menu.Name = p.Name
	menu.Icon = strings.TrimSpace(p.Icon)
	menu.Path = p.Path
	menu.Type = p.Type
	menu.ParentID = p.ParentID

	if err := s.Store.Menus().UpdateMenu(ctx, menu); err != nil {
		return domain.Menu{}, err
	}
	return menu, nil
}

// checkNoCycle walks up from newParentID; finding menuID on the way means
// the proposed parent sits in the node's own subtree.
func (s *MenuService) checkNoCycle(ctx context.Context, menuID, newParentID string) error {
	current := newParentID
	for depth := 0; depth < maxMenuDepth; depth++ {
		if current == menuID {
			return ErrMenuCycle
		}

		node, err := s.Store.Menus().GetMenuByID(ctx, current)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil // chain ends at a missing ancestor
			}
			return err
		}
		if node.ParentID == nil {
			return nil
		}
		current = *node.ParentID
	}
	return ErrMenuCycle
}

// Delete removes a childless node and its role grants in one transaction.
// Nodes with children cannot be deleted; the subtree must go bottom-up.
func (s *MenuService) Delete(ctx context.Context, menuID string) error {
	if _, err := s.Store.Menus().GetMenuByID(ctx, menuID); err != nil {
		return err
	}

	n, err := s.Store.Menus().CountChildren(ctx, menuID)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: %d child node(s)", ErrMenuHasChildren, n)
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.RoleMenus().DeleteAllForMenu(ctx, menuID); err != nil {
			return err
		}
		return tx.Menus().DeleteMenu(ctx, menuID)
	})
}
