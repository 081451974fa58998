package session

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type state struct {
	Query string
	Items []int
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(ttl time.Duration, max int) (*Store[state], *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := New[state](ttl, max)
	s.Now = clock.now
	return s, clock
}

func TestPutGet(t *testing.T) {
	s, _ := newTestStore(time.Hour, 10)
	id := s.Create(state{Query: "D15"})
	require.NotEmpty(t, id)

	v, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, "D15", v.Query)

	s.Put(id, state{Query: "BIG"})
	v, _ = s.Get(id)
	assert.Equal(t, "BIG", v.Query)

	_, ok = s.Get("unknown")
	assert.False(t, ok)

	s.Delete(id)
	_, ok = s.Get(id)
	assert.False(t, ok)
}

func TestSessionsAreIsolated(t *testing.T) {
	s, _ := newTestStore(time.Hour, 10)
	a := s.Create(state{Query: "a"})
	b := s.Create(state{Query: "b"})
	assert.NotEqual(t, a, b)

	s.Put(a, state{Query: "changed"})
	vb, _ := s.Get(b)
	assert.Equal(t, "b", vb.Query)
}

func TestExpiry(t *testing.T) {
	s, clock := newTestStore(time.Hour, 10)
	id := s.Create(state{Query: "x"})

	clock.advance(59 * time.Minute)
	_, ok := s.Get(id)
	require.True(t, ok, "access refreshes the idle timer")

	clock.advance(59 * time.Minute)
	_, ok = s.Get(id)
	require.True(t, ok)

	clock.advance(61 * time.Minute)
	_, ok = s.Get(id)
	assert.False(t, ok)
	assert.Zero(t, s.Len())
}

func TestEvictsOldestWhenFull(t *testing.T) {
	s, clock := newTestStore(0, 3)
	first := s.Create(state{Query: "1"})
	clock.advance(time.Second)
	second := s.Create(state{Query: "2"})
	clock.advance(time.Second)
	third := s.Create(state{Query: "3"})
	clock.advance(time.Second)

	_, _ = s.Get(first)
	clock.advance(time.Second)

	fourth := s.Create(state{Query: "4"})
	assert.Equal(t, 3, s.Len())

	_, ok := s.Get(second)
	assert.False(t, ok, "least recently used session is evicted")
	for _, id := range []string{first, third, fourth} {
		_, ok := s.Get(id)
		assert.True(t, ok)
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := New[state](time.Hour, 0)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := s.Create(state{})
			s.Put(id, state{Items: []int{1, 2, 3}})
			v, ok := s.Get(id)
			assert.True(t, ok)
			assert.Len(t, v.Items, 3)
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, s.Len())
}

func TestLoadSetsCookie(t *testing.T) {
	s := New[state](time.Hour, 10)
	fresh := func() state { return state{Query: "fresh"} }

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	id, v := s.Load(rec, req, fresh)
	assert.Equal(t, "fresh", v.Query)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, id, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	s.Put(id, state{Query: "stored"})
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	id2, v := s.Load(rec, req, fresh)
	assert.Equal(t, id, id2)
	assert.Equal(t, "stored", v.Query)
	assert.Empty(t, rec.Result().Cookies())
}
