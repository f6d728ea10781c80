package credentials

import (
	"errors"
	"fmt"
)

// Slots names the two keys the login flow writes and the client clears.
type Slots struct {
	TokenKey    string
	UserInfoKey string
}

// Save writes the token and the serialized user. A failed user write rolls the
// token back so a half-written pair is never left behind.
func (s Slots) Save(store Store, token, userInfo string) error {
	if err := store.SetItem(s.TokenKey, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	if err := store.SetItem(s.UserInfoKey, userInfo); err != nil {
		rollback := store.RemoveItem(s.TokenKey)
		return errors.Join(fmt.Errorf("save user info: %w", err), rollback)
	}
	return nil
}

// Load reads both slots.
func (s Slots) Load(store Store) (token, userInfo string, err error) {
	token, err = store.GetItem(s.TokenKey)
	if err != nil {
		return "", "", fmt.Errorf("load token: %w", err)
	}
	userInfo, err = store.GetItem(s.UserInfoKey)
	if err != nil {
		return "", "", fmt.Errorf("load user info: %w", err)
	}
	return token, userInfo, nil
}

// Clear removes both slots, attempting each even if one fails.
func (s Slots) Clear(store Store) error {
	return errors.Join(store.RemoveItem(s.TokenKey), store.RemoveItem(s.UserInfoKey))
}
