package services

import (
	"context"

	"tableside/internal/session"
	"tableside/pkg/menubot"
)

type MenuService interface {
	Catalog(ctx context.Context, sess *session.Session, token string) ([]menubot.MenuItem, error)
	Search(sess *session.Session, query string) []menubot.MenuItem
	Combos(ctx context.Context, sess *session.Session, token string) ([]menubot.Combo, error)
}

type menuService struct {
	client *menubot.Client
}

func NewMenuService(client *menubot.Client) MenuService {
	return &menuService{client: client}
}

// Catalog returns the session's menu, fetching it from the backend at most
// once per session. A fetch completing after an identity change or teardown
// is discarded.
func (s *menuService) Catalog(ctx context.Context, sess *session.Session, token string) ([]menubot.MenuItem, error) {
	if sess.Menu.Loaded() {
		return sess.Menu.Items(), nil
	}

	gen := sess.Generation()
	key := sess.Key

	items, err := s.client.FullMenu(ctx, token, key.Franchise, key.Branch, key.Table)
	if err != nil {
		return nil, err
	}

	if gen != sess.Generation() {
		return nil, ErrSuperseded
	}

	sess.Menu.Load(items)
	return sess.Menu.Items(), nil
}

func (s *menuService) Search(sess *session.Session, query string) []menubot.MenuItem {
	return sess.Menu.Search(query)
}

// Combos is fetched independently of the menu catalog and not indexed.
func (s *menuService) Combos(ctx context.Context, sess *session.Session, token string) ([]menubot.Combo, error) {
	key := sess.Key
	return s.client.Combos(ctx, token, key.Franchise, key.Branch, key.Table)
}
