package persist

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeService records what the editor sends and replies with a canned status.
type fakeService struct {
	mu       sync.Mutex
	payloads []Payload
	auth     []string
	cookies  []string
	status   int
	reply    any
	raw      string
}

func (f *fakeService) server(t *testing.T) *httptest.Server {
	t.Helper()
	r := gin.New()
	r.POST("/map/add_map/", func(c *gin.Context) {
		var p Payload
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
			return
		}
		cookie, _ := c.Cookie(DefaultCookieName)
		f.mu.Lock()
		f.payloads = append(f.payloads, p)
		f.auth = append(f.auth, c.GetHeader("Authorization"))
		f.cookies = append(f.cookies, cookie)
		status, reply, raw := f.status, f.reply, f.raw
		f.mu.Unlock()

		if status == 0 {
			status = http.StatusCreated
		}
		if raw != "" {
			c.String(status, raw)
			return
		}
		if reply == nil {
			reply = gin.H{"map_name": p.MapName}
		}
		c.JSON(status, reply)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func (f *fakeService) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payloads)
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
		ok   bool
	}{
		{"empty", "", 10, "", false},
		{"spaces", "   ", 10, "", false},
		{"one_char", "a", 10, "a", true},
		{"ten_chars", "abcdefghij", 10, "abcdefghij", true},
		{"eleven_chars", "abcdefghijk", 10, "", false},
		{"trimmed", "  cave  ", 10, "cave", true},
		{"runes_not_bytes", "карта-лес1", 10, "карта-лес1", true},
		{"no_cap", strings.Repeat("x", 40), 0, strings.Repeat("x", 40), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateName(tt.in, tt.max)
			if !tt.ok {
				if !errors.Is(err, ErrInvalidMapName) {
					t.Fatalf("ValidateName(%q) err = %v, want ErrInvalidMapName", tt.in, err)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSaveRejectsBadNamesWithoutRequest(t *testing.T) {
	svc := &fakeService{}
	srv := svc.server(t)
	gw := NewGateway(srv.URL+"/map/add_map/", Credentials{}, time.Second)

	for _, name := range []string{"", "abcdefghijk"} {
		err := gw.Save(context.Background(), name, [][]int{{1}})
		assert.ErrorIs(t, err, ErrInvalidMapName)
	}
	assert.Equal(t, 0, svc.count())

	for _, name := range []string{"a", "abcdefghij"} {
		require.NoError(t, gw.Save(context.Background(), name, [][]int{{1}}))
	}
	assert.Equal(t, 2, svc.count())
}

func TestSavePostsPayloadAndCredentials(t *testing.T) {
	svc := &fakeService{}
	srv := svc.server(t)
	gw := NewGateway(srv.URL+"/map/add_map/", Credentials{Token: "opaque-token", Cookie: "cookie-value"}, time.Second)

	matrix := [][]int{{4, 4, 4}, {4, 1, 4}}
	require.NoError(t, gw.Save(context.Background(), " forest ", matrix))

	require.Equal(t, 1, svc.count())
	assert.Equal(t, Payload{MapName: "forest", Matrix: matrix}, svc.payloads[0])
	assert.Equal(t, "Bearer opaque-token", svc.auth[0])
	assert.Equal(t, "cookie-value", svc.cookies[0])
}

func TestSaveFailures(t *testing.T) {
	cases := []struct {
		name       string
		status     int
		reply      any
		raw        string
		wantReason string
	}{
		{"detail", http.StatusConflict, gin.H{"detail": "map already exists"}, "", "map already exists"},
		{"error_field", http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"}, "", "Invalid or expired token"},
		{"no_reason", http.StatusInternalServerError, gin.H{}, "", ""},
		{"plain_text", http.StatusBadGateway, nil, "upstream down", "upstream down"},
		{"html", http.StatusBadGateway, nil, "<html>oops</html>", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeService{status: tc.status, reply: tc.reply, raw: tc.raw}
			srv := svc.server(t)
			gw := NewGateway(srv.URL+"/map/add_map/", Credentials{}, time.Second)

			err := gw.Save(context.Background(), "m", [][]int{{0}})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrPersistence)

			var f *Failure
			require.True(t, errors.As(err, &f))
			assert.Equal(t, tc.status, f.Status)
			assert.Equal(t, tc.wantReason, f.Reason)
			if tc.wantReason == "" {
				assert.Equal(t, GenericFailure, f.Message())
			} else {
				assert.Equal(t, tc.wantReason, f.Message())
			}
		})
	}
}

func TestSaveNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	gw := NewGateway(url+"/map/add_map/", Credentials{}, time.Second)
	err := gw.Save(context.Background(), "m", [][]int{{0}})
	assert.ErrorIs(t, err, ErrPersistence)

	var f *Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, 0, f.Status)
	assert.Equal(t, GenericFailure, f.Message())
}

func TestSaveAsyncIndependentRequests(t *testing.T) {
	svc := &fakeService{}
	srv := svc.server(t)
	gw := NewGateway(srv.URL+"/map/add_map/", Credentials{}, time.Second)

	matrix := [][]int{{1, 2}}
	first := gw.SaveAsync(context.Background(), "one", matrix)
	matrix[0][0] = 3
	second := gw.SaveAsync(context.Background(), "one", matrix)

	r1, r2 := <-first, <-second
	require.NoError(t, r1.Err)
	require.NoError(t, r2.Err)
	assert.Equal(t, "one", r1.Name)

	require.Equal(t, 2, svc.count())
	seen := map[int]bool{}
	for _, p := range svc.payloads {
		seen[p.Matrix[0][0]] = true
	}
	assert.Equal(t, map[int]bool{1: true, 3: true}, seen)
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": "a@b.c", "exp": exp.Unix()})
	s, err := tok.SignedString([]byte("secret"))
	require.NoError(t, err)
	return s
}

func TestCredentialsCheck(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.NoError(t, Credentials{}.Check(now))
	assert.NoError(t, Credentials{Token: "not-a-jwt"}.Check(now))
	assert.NoError(t, Credentials{Token: signed(t, now.Add(time.Hour))}.Check(now))
	assert.ErrorIs(t, Credentials{Token: signed(t, now.Add(-time.Minute))}.Check(now), ErrCredentialsExpired)
	assert.ErrorIs(t, Credentials{Cookie: signed(t, now.Add(-time.Minute))}.Check(now), ErrCredentialsExpired)
}

func TestSaveExpiredTokenSkipsRequest(t *testing.T) {
	svc := &fakeService{}
	srv := svc.server(t)
	now := time.Now()
	gw := NewGateway(srv.URL+"/map/add_map/", Credentials{Token: signed(t, now.Add(-time.Hour))}, time.Second)
	gw.Now = func() time.Time { return now }

	err := gw.Save(context.Background(), "m", [][]int{{0}})
	assert.ErrorIs(t, err, ErrCredentialsExpired)
	assert.Equal(t, 0, svc.count())
}

func TestCredentialsApplyCustomCookieName(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	Credentials{Cookie: "v", CookieName: "sid"}.Apply(req)
	c, err := req.Cookie("sid")
	require.NoError(t, err)
	assert.Equal(t, "v", c.Value)
	assert.Empty(t, req.Header.Get("Authorization"))
}
