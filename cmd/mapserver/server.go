package main

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"

	"github.com/milk9111/tilepaint/grid"
	"github.com/milk9111/tilepaint/maps"
	"github.com/milk9111/tilepaint/persist"
)

var errMapExists = errors.New("map already exists")

// store keeps saved maps in memory and optionally mirrors them to disk.
type store struct {
	mu   sync.RWMutex
	maps map[string]maps.Document
	dir  string
}

func newStore(dir string) *store {
	return &store{maps: make(map[string]maps.Document), dir: dir}
}

func (s *store) add(doc maps.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.maps[doc.Name]; ok {
		return errMapExists
	}
	s.maps[doc.Name] = doc
	if s.dir != "" {
		if err := maps.WriteFile(filepath.Join(s.dir, doc.Name+".json"), doc); err != nil {
			logrus.WithError(err).WithField("map", doc.Name).Warn("mapserver: mirror to disk failed")
		}
	}
	return nil
}

func (s *store) get(name string) (maps.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.maps[name]
	return doc, ok
}

func (s *store) names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.maps))
	for n := range s.maps {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

type serverOptions struct {
	Secret     string
	CookieName string
	MaxNameLen int
}

func newRouter(st *store, opts serverOptions) *gin.Engine {
	if opts.CookieName == "" {
		opts.CookieName = persist.DefaultCookieName
	}
	r := gin.New()
	r.Use(gin.Recovery())

	g := r.Group("/map")
	if opts.Secret != "" {
		g.Use(auth(opts.Secret, opts.CookieName))
	}
	g.POST("/add_map/", addMap(st, opts.MaxNameLen))
	g.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"maps": st.names()})
	})
	g.GET("/:name", func(c *gin.Context) {
		doc, ok := st.get(c.Param("name"))
		if !ok {
			detail(c, http.StatusNotFound, "map not found")
			return
		}
		c.JSON(http.StatusOK, doc)
	})
	return r
}

func detail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": msg})
}

func addMap(st *store, maxNameLen int) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p persist.Payload
		if err := c.ShouldBindJSON(&p); err != nil {
			detail(c, http.StatusBadRequest, "invalid map document")
			return
		}
		name, err := persist.ValidateName(p.MapName, maxNameLen)
		if err != nil {
			msg := "map name must not be empty"
			if maxNameLen > 0 {
				msg = fmt.Sprintf("map name must be 1-%d characters", maxNameLen)
			}
			detail(c, http.StatusBadRequest, msg)
			return
		}
		if !fileSafe(name) {
			detail(c, http.StatusBadRequest, "map name must not contain path separators or '..'")
			return
		}
		g, err := grid.FromMatrix(p.Matrix)
		if err != nil {
			detail(c, http.StatusBadRequest, "matrix must be a non-empty rectangle")
			return
		}
		if err := st.add(maps.Document{Name: name, Matrix: p.Matrix}); err != nil {
			detail(c, http.StatusConflict, err.Error())
			return
		}
		logrus.WithFields(logrus.Fields{"map": name, "width": g.Width(), "height": g.Height()}).Info("mapserver: map stored")
		c.JSON(http.StatusCreated, gin.H{"map_name": name})
	}
}

// fileSafe reports whether name can be used as a file name inside the
// store directory.
func fileSafe(name string) bool {
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return false
	}
	return filepath.Base(name) == name
}

// auth accepts an HS256 token from the Authorization header or the session
// cookie.
func auth(secret, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := ""
		if h := c.GetHeader("Authorization"); h != "" {
			parts := strings.SplitN(h, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				detail(c, http.StatusUnauthorized, "invalid authorization header")
				return
			}
			tok = parts[1]
		} else if v, err := c.Cookie(cookieName); err == nil {
			tok = v
		}
		if tok == "" {
			detail(c, http.StatusUnauthorized, "not authenticated")
			return
		}

		token, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			logrus.WithError(err).Warn("mapserver: token rejected")
			detail(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			c.Set("subject", claims["sub"])
		}
		c.Next()
	}
}
