package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/ginny/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the shared PreferenceStore contract against a backend.
func exerciseStore(t *testing.T, store core.PreferenceStore) {
	t.Helper()
	ctx := context.Background()
	user := "Johnny-" + uuid.NewString()

	got, err := store.Get(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, store.Put(ctx, user, "我是 Johnny，喜歡韓式風格"))
	require.NoError(t, store.Put(ctx, user, "不喜歡高跟鞋"))

	got, err = store.Get(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, []string{"我是 Johnny，喜歡韓式風格", "不喜歡高跟鞋"}, got)

	other, err := store.Get(ctx, user+"-other")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestInMemoryStore(t *testing.T) {
	exerciseStore(t, NewInMemoryStore())
}

func TestInMemoryStore_ReturnsCopies(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "u", "a"))

	got, _ := s.Get(ctx, "u")
	got[0] = "mutated"

	again, _ := s.Get(ctx, "u")
	assert.Equal(t, []string{"a"}, again)
	assert.Equal(t, []string{"u"}, s.Users())
}

func TestInMemoryStore_Concurrent(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Put(ctx, "shared", fmt.Sprintf("pref-%d", i))
			_, _ = s.Get(ctx, "shared")
		}(i)
	}
	wg.Wait()
	got, _ := s.Get(ctx, "shared")
	assert.Len(t, got, 50)
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	exerciseStore(t, store)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")
	ctx := context.Background()

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "Johnny", "喜歡韓式風格"))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.Get(ctx, "Johnny")
	require.NoError(t, err)
	assert.Equal(t, []string{"喜歡韓式風格"}, got)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	store := NewRedisStore(addr)
	defer func() { _ = store.Close() }()
	require.NoError(t, store.Ping(context.Background()))

	exerciseStore(t, store)
}

func TestRedisStore_UnreachableIsProviderUnavailable(t *testing.T) {
	store := NewRedisStore("127.0.0.1:1")
	defer func() { _ = store.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := store.Get(ctx, "u")
	assert.ErrorIs(t, err, core.ErrProviderUnavailable)
}

func TestUnavailableStore(t *testing.T) {
	var s UnavailableStore
	_, err := s.Get(context.Background(), "u")
	assert.ErrorIs(t, err, core.ErrProviderUnavailable)
	assert.ErrorIs(t, err, ErrMissingCredential)

	err = s.Put(context.Background(), "u", "x")
	assert.ErrorIs(t, err, core.ErrProviderUnavailable)
}

// fakeMem0 is a minimal stand-in for the Mem0 memories API.
func fakeMem0(t *testing.T, envelope bool) *httptest.Server {
	t.Helper()
	var (
		mu       sync.Mutex
		memories = map[string][]string{}
	)
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Token test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Invalid API key"}`))
			return
		}
		if r.URL.Path != "/v1/memories/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		mu.Lock()
		defer mu.Unlock()

		switch r.Method {
		case http.MethodPost:
			var req mem0AddRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			for _, m := range req.Messages {
				memories[req.UserID] = append(memories[req.UserID], m.Content)
			}
			_, _ = w.Write([]byte(`[{"id":"1","event":"ADD"}]`))
		case http.MethodGet:
			user := r.URL.Query().Get("user_id")
			list := make([]mem0Memory, 0)
			for i, m := range memories[user] {
				list = append(list, mem0Memory{ID: fmt.Sprint(i), Memory: m})
			}
			if envelope {
				_ = json.NewEncoder(w).Encode(map[string]any{"results": list})
				return
			}
			_ = json.NewEncoder(w).Encode(list)
		}
	}))
}

func TestMem0Store(t *testing.T) {
	for _, envelope := range []bool{false, true} {
		t.Run(fmt.Sprintf("envelope=%v", envelope), func(t *testing.T) {
			srv := fakeMem0(t, envelope)
			defer srv.Close()

			store := NewMem0Store("test-key", func(o *Mem0Options) { o.BaseURL = srv.URL + "/" })
			exerciseStore(t, store)
		})
	}
}

func TestMem0Store_AuthFailure(t *testing.T) {
	srv := fakeMem0(t, false)
	defer srv.Close()

	store := NewMem0Store("wrong", func(o *Mem0Options) { o.BaseURL = srv.URL })

	_, err := store.Get(context.Background(), "u")
	require.ErrorIs(t, err, core.ErrProviderUnavailable)
	assert.Contains(t, err.Error(), "401")

	err = store.Put(context.Background(), "u", "x")
	assert.ErrorIs(t, err, core.ErrProviderUnavailable)
}

func TestMem0Store_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	store := NewMem0Store("test-key", func(o *Mem0Options) {
		o.BaseURL = srv.URL
		o.Timeout = 50 * time.Millisecond
	})

	_, err := store.Get(context.Background(), "u")
	assert.ErrorIs(t, err, core.ErrProviderUnavailable)
}
