package store

import (
	"context"
	"encoding/json"
	"fmt"

	"mandi/models"
)

// session holds the per-caller slices the browser app kept in local storage:
// current user, cart, language. Collections stay shared across sessions.
type session struct {
	user     *models.User
	cart     []models.CartItem
	language models.Language
	hydrated bool
}

func userKey(id string) string     { return fmt.Sprintf("session:%s:currentUser", id) }
func cartKey(id string) string     { return fmt.Sprintf("session:%s:cart", id) }
func languageKey(id string) string { return fmt.Sprintf("session:%s:language", id) }

// getSessionLocked returns the session for id, rehydrating its three slices
// from kv the first time the id is seen. Caller holds s.mu.
func (s *Store) getSessionLocked(ctx context.Context, id string) *session {
	if sess, ok := s.sessions[id]; ok {
		return sess
	}

	sess := &session{language: s.defaultLang}
	if raw, ok := s.kvs.Get(ctx, userKey(id)); ok {
		var u models.User
		if err := json.Unmarshal([]byte(raw), &u); err == nil {
			sess.user = &u
		}
	}
	if raw, ok := s.kvs.Get(ctx, cartKey(id)); ok {
		var cart []models.CartItem
		if err := json.Unmarshal([]byte(raw), &cart); err == nil {
			sess.cart = cart
		}
	}
	if raw, ok := s.kvs.Get(ctx, languageKey(id)); ok {
		lang := models.Language(raw)
		if lang == models.LangHindi || lang == models.LangEnglish {
			sess.language = lang
		}
	}
	sess.hydrated = true
	s.sessions[id] = sess
	return sess
}

func (s *Store) persistUser(ctx context.Context, id string, user *models.User) {
	if user == nil {
		s.kvs.Del(ctx, userKey(id))
		return
	}
	if data, err := json.Marshal(user); err == nil {
		s.kvs.Set(ctx, userKey(id), string(data))
	}
}

func (s *Store) persistCart(ctx context.Context, id string, cart []models.CartItem) {
	if cart == nil {
		cart = []models.CartItem{}
	}
	if data, err := json.Marshal(cart); err == nil {
		s.kvs.Set(ctx, cartKey(id), string(data))
	}
}

func (s *Store) persistLanguage(ctx context.Context, id string, lang models.Language) {
	s.kvs.Set(ctx, languageKey(id), string(lang))
}

// Login scans for an exact (email, role) match. On a match the session's
// current user is set and true is returned; otherwise nothing changes.
// There is no password check.
func (s *Store) Login(ctx context.Context, sessionID, email string, role models.Role) (models.User, bool) {
	s.mu.Lock()
	var found *models.User
	for i := range s.users {
		if s.users[i].Email == email && s.users[i].Role == role {
			found = &s.users[i]
			break
		}
	}
	if found == nil {
		s.mu.Unlock()
		return models.User{}, false
	}
	user := *found
	sess := s.getSessionLocked(ctx, sessionID)
	sess.user = &user
	s.mu.Unlock()

	s.persistUser(ctx, sessionID, &user)
	return user, true
}

// Logout clears the current user and empties the cart unconditionally.
func (s *Store) Logout(ctx context.Context, sessionID string) {
	s.mu.Lock()
	sess := s.getSessionLocked(ctx, sessionID)
	sess.user = nil
	sess.cart = nil
	s.mu.Unlock()

	s.persistUser(ctx, sessionID, nil)
	s.persistCart(ctx, sessionID, nil)
}

func (s *Store) CurrentUser(ctx context.Context, sessionID string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.getSessionLocked(ctx, sessionID)
	if sess.user == nil {
		return models.User{}, false
	}
	return *sess.user, true
}

func (s *Store) Cart(ctx context.Context, sessionID string) []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.getSessionLocked(ctx, sessionID)
	out := make([]models.CartItem, len(sess.cart))
	copy(out, sess.cart)
	return out
}

// AddToCart increments the quantity when the product is already carted; the
// existing entry keeps the price snapshot from its first add. Available
// product quantity is deliberately not checked.
func (s *Store) AddToCart(ctx context.Context, sessionID, productID string, quantity int, price float64) {
	s.mu.Lock()
	sess := s.getSessionLocked(ctx, sessionID)
	found := false
	for i := range sess.cart {
		if sess.cart[i].ProductID == productID {
			sess.cart[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		sess.cart = append(sess.cart, models.CartItem{
			ProductID: productID,
			Quantity:  quantity,
			Price:     price,
		})
	}
	cart := append([]models.CartItem(nil), sess.cart...)
	s.mu.Unlock()

	s.persistCart(ctx, sessionID, cart)
}

// RemoveFromCart is a no-op when the product is not carted.
func (s *Store) RemoveFromCart(ctx context.Context, sessionID, productID string) {
	s.mu.Lock()
	sess := s.getSessionLocked(ctx, sessionID)
	kept := sess.cart[:0]
	for _, it := range sess.cart {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	sess.cart = kept
	cart := append([]models.CartItem(nil), sess.cart...)
	s.mu.Unlock()

	s.persistCart(ctx, sessionID, cart)
}

func (s *Store) ClearCart(ctx context.Context, sessionID string) {
	s.mu.Lock()
	sess := s.getSessionLocked(ctx, sessionID)
	sess.cart = nil
	s.mu.Unlock()

	s.persistCart(ctx, sessionID, nil)
}

func (s *Store) Language(ctx context.Context, sessionID string) models.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getSessionLocked(ctx, sessionID).language
}

// ToggleLanguage flips hi ↔ en and persists immediately.
func (s *Store) ToggleLanguage(ctx context.Context, sessionID string) models.Language {
	s.mu.Lock()
	sess := s.getSessionLocked(ctx, sessionID)
	sess.language = sess.language.Toggle()
	lang := sess.language
	s.mu.Unlock()

	s.persistLanguage(ctx, sessionID, lang)
	return lang
}
