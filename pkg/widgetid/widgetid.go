// Package widgetid computes stable, deterministic identities for widget
// invocations. Identity is content-addressed: a hash over a canonical
// encoding of every disambiguating input, never a call counter, so that
// inserting or removing unrelated widgets earlier in a script does not shift
// the identities of later ones.
package widgetid

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// ID is the key under which a widget's state persists across reruns.
type ID string

// Params are the disambiguating inputs of one widget invocation.
type Params struct {
	// Kind names the widget type ("button_group", "pills", "feedback").
	Kind string
	// Label is the user-visible label, part of the fingerprint.
	Label string
	// UserKey is the caller-supplied key. Two invocations with equal user
	// keys alias deliberately, regardless of position or arguments.
	UserKey string
	// FormID is the enclosing form's identity, empty outside a form.
	FormID string
	// Path is the ambient container nesting path.
	Path []string
	// Fingerprint captures the positional arguments that distinguish this
	// call from otherwise identical ones (option contents, selection mode).
	Fingerprint []string
}

// Compute derives the identity for a widget invocation. The same Params
// always yield the same ID across reruns. An explicit user key is the whole
// identity: equal keys collide regardless of kind, position, or arguments,
// which is what makes intentional aliasing (and duplicate detection) work.
func Compute(p Params) ID {
	h := sha256.New()

	write := func(s string) {
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], uint64(len(s)))
		h.Write(n[:])
		h.Write([]byte(s))
	}

	if p.UserKey != "" {
		write(p.UserKey)
		sum := hex.EncodeToString(h.Sum(nil))[:16]
		return ID("key-" + sum + "-" + p.UserKey)
	}

	write(p.Kind)
	write(p.Label)
	write(p.FormID)
	for _, segment := range p.Path {
		write(segment)
	}
	for _, arg := range p.Fingerprint {
		write(arg)
	}

	sum := hex.EncodeToString(h.Sum(nil))[:16]
	return ID(p.Kind + "-" + sum)
}
