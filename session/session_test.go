package session

import (
	"context"
	"image/color"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/tilepaint/grid"
	"github.com/milk9111/tilepaint/input"
	"github.com/milk9111/tilepaint/persist"
	"github.com/milk9111/tilepaint/tiles"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// canvas keeps the last painted color per pixel origin.
type canvas struct {
	w, h   int
	clears int
	fills  map[[2]int]color.Color
}

func (c *canvas) Clear() {
	c.clears++
	c.fills = map[[2]int]color.Color{}
}

func (c *canvas) FillRect(x, y, w, h int, col color.Color) {
	c.fills[[2]int{x, y}] = col
}

func (c *canvas) Resize(w, h int) { c.w, c.h = w, h }

type service struct {
	mu       sync.Mutex
	status   int
	detail   string
	payloads []persist.Payload
	release  chan struct{}
}

func (s *service) start(t *testing.T) *persist.Gateway {
	t.Helper()
	r := gin.New()
	r.POST("/map/add_map/", func(c *gin.Context) {
		var p persist.Payload
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		if s.release != nil {
			<-s.release
		}
		s.mu.Lock()
		s.payloads = append(s.payloads, p)
		status, detail := s.status, s.detail
		s.mu.Unlock()
		if status == 0 {
			c.JSON(http.StatusCreated, gin.H{"map_name": p.MapName})
			return
		}
		c.JSON(status, gin.H{"detail": detail})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return persist.NewGateway(srv.URL+"/map/add_map/", persist.Credentials{}, 5*time.Second)
}

func (s *service) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payloads)
}

func (s *service) received() []persist.Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]persist.Payload(nil), s.payloads...)
}

func newSession(t *testing.T, w, h int, gw *persist.Gateway) (*Session, *canvas, *[]Status) {
	t.Helper()
	cv := &canvas{}
	var statuses []Status
	s, err := New(Options{
		Width:       w,
		Height:      h,
		TileSize:    8,
		InitialTile: grid.Grass,
		Surface:     cv,
		Gateway:     gw,
		Notify:      func(st Status) { statuses = append(statuses, st) },
	})
	require.NoError(t, err)
	return s, cv, &statuses
}

func TestNewRendersInitialGrid(t *testing.T) {
	s, cv, _ := newSession(t, 4, 3, nil)
	assert.Equal(t, 32, cv.w)
	assert.Equal(t, 24, cv.h)
	assert.Equal(t, 1, s.Renders())
	assert.Len(t, cv.fills, 12)
	assert.Equal(t, grid.Grass, s.Palette().SelectedID())
}

func TestNewRejectsBadOptions(t *testing.T) {
	_, err := New(Options{Width: 2, Height: 2})
	assert.Error(t, err)
	_, err = New(Options{Width: 0, Height: 2, TileSize: 8})
	assert.ErrorIs(t, err, grid.ErrInvalidSize)
}

func TestPaintingThroughQueue(t *testing.T) {
	s, cv, _ := newSession(t, 5, 5, nil)
	require.NoError(t, s.Palette().Select(grid.Water))

	s.Pointer(
		input.Event{Kind: input.Move, X: 4, Y: 4},
		input.Event{Kind: input.Down, X: 12, Y: 20},
		input.Event{Kind: input.Move, X: 20, Y: 20},
		input.Event{Kind: input.Up, X: 20, Y: 20},
		input.Event{Kind: input.Move, X: 28, Y: 20},
	)
	assert.Equal(t, 5, s.Flush())

	snap := s.Snapshot()
	assert.Equal(t, grid.Empty, snap[0][0])
	assert.Equal(t, grid.Water, snap[2][1])
	assert.Equal(t, grid.Water, snap[2][2])
	assert.Equal(t, grid.Empty, snap[2][3])
	assert.Equal(t, 3, s.Renders())

	water := s.Registry().Resolve(grid.Water).Color
	assert.Equal(t, water, cv.fills[[2]int{8, 16}])
}

func TestImportResizesAndRedraws(t *testing.T) {
	s, cv, _ := newSession(t, 2, 2, nil)
	require.NoError(t, s.Import("lake", [][]int{{3, 3, 3}, {1, 1, 1}, {4, 4, 4}}))

	assert.Equal(t, "lake", s.Name())
	assert.Equal(t, 3, s.Grid().Width())
	assert.Equal(t, 24, cv.w)
	assert.Equal(t, 24, cv.h)
	assert.Len(t, cv.fills, 9)

	// painting after an import lands in the new grid
	s.Pointer(input.Event{Kind: input.Down, X: 17, Y: 17}, input.Event{Kind: input.Up})
	s.Flush()
	assert.Equal(t, grid.Grass, s.Snapshot()[2][2])
}

func TestImportBadMatrixKeepsState(t *testing.T) {
	s, _, statuses := newSession(t, 2, 2, nil)
	before := s.Snapshot()
	renders := s.Renders()

	assert.ErrorIs(t, s.Import("x", [][]int{{1, 2}, {3}}), grid.ErrRaggedMatrix)
	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, renders, s.Renders())
	assert.Equal(t, "", s.Name())
	require.NotEmpty(t, *statuses)
	assert.Equal(t, Failure, (*statuses)[len(*statuses)-1].Level)
}

func TestResetAndClear(t *testing.T) {
	s, _, _ := newSession(t, 20, 15, nil)
	require.NoError(t, s.Reset(grid.Example))
	assert.Equal(t, grid.Rock, s.Snapshot()[0][0])

	s.Clear()
	for _, row := range s.Snapshot() {
		for _, id := range row {
			assert.Equal(t, tiles.DefaultID, id)
		}
	}
}

func TestSaveSuccess(t *testing.T) {
	svc := &service{}
	s, _, statuses := newSession(t, 3, 2, svc.start(t))
	s.Pointer(input.Event{Kind: input.Down, X: 0, Y: 0}, input.Event{Kind: input.Up})
	s.Flush()

	require.NoError(t, s.Save(context.Background(), " valley "))
	assert.Equal(t, "valley", s.Name())
	assert.Equal(t, 1, s.Pending())

	require.Eventually(t, func() bool { return s.Poll() == 1 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, s.Pending())

	require.Equal(t, 1, svc.count())
	assert.Equal(t, persist.Payload{MapName: "valley", Matrix: [][]int{{1, 0, 0}, {0, 0, 0}}}, svc.received()[0])

	last := (*statuses)[len(*statuses)-1]
	assert.Equal(t, Status{Level: Success, Text: "Saved valley"}, last)
}

func TestSaveInvalidNameReportsWithoutRequest(t *testing.T) {
	svc := &service{}
	s, _, statuses := newSession(t, 2, 2, svc.start(t))

	for _, name := range []string{"", "abcdefghijk"} {
		err := s.Save(context.Background(), name)
		assert.ErrorIs(t, err, persist.ErrInvalidMapName)
		last := (*statuses)[len(*statuses)-1]
		assert.Equal(t, Status{Level: Failure, Text: "Map name must be 1-10 characters"}, last)
	}
	assert.Equal(t, 0, s.Pending())
	assert.Equal(t, 0, svc.count())
}

func TestSaveServerReason(t *testing.T) {
	svc := &service{status: http.StatusConflict, detail: "map already exists"}
	s, _, statuses := newSession(t, 2, 2, svc.start(t))

	require.NoError(t, s.Save(context.Background(), "dup"))
	require.Eventually(t, func() bool { return s.Poll() == 1 }, 5*time.Second, 10*time.Millisecond)

	last := (*statuses)[len(*statuses)-1]
	assert.Equal(t, Status{Level: Failure, Text: "Save failed: map already exists"}, last)
}

func TestSaveSnapshotsAtRequestTime(t *testing.T) {
	svc := &service{release: make(chan struct{})}
	s, _, _ := newSession(t, 2, 1, svc.start(t))

	require.NoError(t, s.Save(context.Background(), "a"))
	s.Pointer(input.Event{Kind: input.Down, X: 0, Y: 0}, input.Event{Kind: input.Up})
	s.Flush()
	require.NoError(t, s.Save(context.Background(), "b"))
	assert.Equal(t, 2, s.Pending())
	assert.Equal(t, 0, s.Poll())

	close(svc.release)
	require.Eventually(t, func() bool {
		s.Poll()
		return s.Pending() == 0
	}, 5*time.Second, 10*time.Millisecond)

	got := map[string][][]int{}
	for _, p := range svc.received() {
		got[p.MapName] = p.Matrix
	}
	assert.Equal(t, [][]int{{0, 0}}, got["a"])
	assert.Equal(t, [][]int{{1, 0}}, got["b"])
}

func TestSaveWithoutGateway(t *testing.T) {
	s, _, statuses := newSession(t, 1, 1, nil)
	assert.Error(t, s.Save(context.Background(), "x"))
	assert.Equal(t, Status{Level: Failure, Text: GenericSaveFailure}, (*statuses)[0])
}
