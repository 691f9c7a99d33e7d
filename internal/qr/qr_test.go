package qr

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	saves   int
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (s *memStore) Save(ctx context.Context, name, contentType string, r io.Reader, size int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	s.objects[name] = buf.Bytes()
	s.saves++
	return s.URL(name), nil
}

func (s *memStore) Exists(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[name]
	return ok, nil
}

func (s *memStore) URL(name string) string {
	return "/qr-codes/" + name
}

func TestVotingURL(t *testing.T) {
	gen := NewGenerator("https://vote.example.org/", newMemStore())
	assert.Equal(t, "https://vote.example.org/vote?token=INC-1-AABBCCDDEEFF", gen.VotingURL("INC-1-AABBCCDDEEFF"))
}

func TestGenerate(t *testing.T) {
	store := newMemStore()
	gen := NewGenerator("https://vote.example.org", store)

	url, err := gen.Generate(context.Background(), "INC-1-AABBCCDDEEFF")
	require.NoError(t, err)
	assert.Equal(t, "/qr-codes/INC-1-AABBCCDDEEFF.png", url)

	png := store.objects["INC-1-AABBCCDDEEFF.png"]
	require.NotEmpty(t, png)
	assert.Equal(t, []byte("\x89PNG"), png[:4], "stored object must be a PNG")
}

func TestGenerateReusesExistingCode(t *testing.T) {
	store := newMemStore()
	gen := NewGenerator("https://vote.example.org", store)

	_, err := gen.Generate(context.Background(), "INC-1-AABBCCDDEEFF")
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), "INC-1-AABBCCDDEEFF")
	require.NoError(t, err)
	assert.Equal(t, 1, store.saves, "tokens never change, so codes are rendered once")
}

func TestGenerateBatch(t *testing.T) {
	store := newMemStore()
	gen := NewGenerator("https://vote.example.org", store)

	tokens := []string{"INC-1-000000000001", "INC-1-000000000002", "INC-1-000000000003"}
	urls, err := gen.GenerateBatch(context.Background(), tokens)
	require.NoError(t, err)
	assert.Len(t, urls, 3)
	for _, token := range tokens {
		assert.Contains(t, urls[token], token)
	}
}
