package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/jonathan/image-classifier/internal/kvstore"
)

// CorruptError is returned by Load when the stored document cannot be used.
type CorruptError struct {
	Cause error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("stored preferences are unusable: %v", e.Cause)
}

func (e *CorruptError) Unwrap() error {
	return e.Cause
}

// KeyError is returned for a preference name that does not exist.
type KeyError struct {
	Key string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("unknown preference %q (known: %v)", e.Key, Keys())
}

// Keys lists the preference names in document order.
func Keys() []string {
	return []string{"language", "defaultCategory", "confidenceThreshold", "itemsPerPage", "exportFormat", "autoSave", "notifications"}
}

// Load reads the preferences. A missing document yields the defaults. An
// unreadable or corrupt one also yields the defaults, together with the
// error so the caller can report it.
func Load(store kvstore.Store) (Preferences, error) {
	raw, ok, err := store.Get(Key)
	if err != nil {
		return Defaults(), err
	}
	if !ok {
		return Defaults(), nil
	}
	p, err := decode([]byte(raw))
	if err != nil {
		return Defaults(), &CorruptError{Cause: err}
	}
	return p, nil
}

// Save validates p and writes it. Nothing is written when p is invalid.
func Save(store kvstore.Store, p Preferences) error {
	if err := p.Validate(); err != nil {
		return err
	}
	doc, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return store.Set(Key, string(doc))
}

// Get returns one preference as its JSON text.
func Get(store kvstore.Store, key string) (string, error) {
	if !slices.Contains(Keys(), key) {
		return "", &KeyError{Key: key}
	}
	p, err := Load(store)
	if err != nil {
		return "", err
	}
	doc, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return gjson.GetBytes(doc, key).String(), nil
}

// Set changes one preference and saves the result. value is taken as JSON
// when it parses as a number or boolean and as a string otherwise. A
// corrupt stored document is replaced, starting from the defaults.
func Set(store kvstore.Store, key, value string) (Preferences, error) {
	if !slices.Contains(Keys(), key) {
		return Preferences{}, &KeyError{Key: key}
	}
	p, err := Load(store)
	var corrupt *CorruptError
	if err != nil && !errors.As(err, &corrupt) {
		return Preferences{}, err
	}
	doc, err := json.Marshal(p)
	if err != nil {
		return Preferences{}, err
	}

	if r := gjson.Parse(value); (r.Type == gjson.Number || r.Type == gjson.True || r.Type == gjson.False) && r.Raw == value {
		doc, err = sjson.SetRawBytes(doc, key, []byte(value))
	} else {
		doc, err = sjson.SetBytes(doc, key, value)
	}
	if err != nil {
		return Preferences{}, err
	}

	next, err := decode(doc)
	if err != nil {
		return Preferences{}, err
	}
	if err := Save(store, next); err != nil {
		return Preferences{}, err
	}
	return next, nil
}
