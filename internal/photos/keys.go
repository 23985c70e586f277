package photos

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"github.com/speps/go-hashids/v2"
)

// KeyGenerator builds collision-resistant object keys of the form
// {ownerID}/{epochMillis}-{token}.{extension}. The format is a compatibility
// contract with already-stored objects; do not change it.
type KeyGenerator struct {
	h *hashids.HashID
}

func NewKeyGenerator(salt string) (*KeyGenerator, error) {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = 10

	h, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, fmt.Errorf("hashids: %w", err)
	}

	return &KeyGenerator{h: h}, nil
}

// ObjectKey derives the extension from the original filename (lowercased,
// "bin" when absent) and encodes a timestamp + random pair into the token.
func (g *KeyGenerator) ObjectKey(ownerID int64, filename string) (string, error) {
	now := time.Now().UnixMilli()

	token, err := g.h.EncodeInt64([]int64{now, rand.Int63n(1 << 31)})
	if err != nil {
		return "", fmt.Errorf("encode token: %w", err)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		ext = "bin"
	}

	return fmt.Sprintf("%d/%d-%s.%s", ownerID, now, token, ext), nil
}
