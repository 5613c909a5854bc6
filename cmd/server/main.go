package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/kiliankoe/tvquiz/internal/config"
	"github.com/kiliankoe/tvquiz/internal/game"
	"github.com/kiliankoe/tvquiz/internal/pkgdoc"
	"github.com/kiliankoe/tvquiz/internal/ws"
	staticserver "github.com/kiliankoe/tvquiz/static"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"
)

const version = "v0.3.0-dev"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides PORT env var)")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`tvquiz - TV-style quiz show host

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 8080 or PORT env var)

Environment Variables (also read from .env):
  PORT                Port to listen on (default: 8080)
  PACKAGES_DIR        Directory with question packages (default: ./packages)
  GM_USER             Host interface username for basic auth
  GM_PASS             Host interface password for basic auth
  SINGLE_SESSION      Allow only one active session (default: true)
  EXPORT_ENABLED      Export game results to file (default: true)
  EXPORT_FILE         Path to export game results (default: ./tvquiz-results.txt)
  LOG_LEVEL           debug, info, warn or error (default: info)
  SHOW_RIGHT_ANSWER   Reveal answers after each question (default: true)
  PLAY_SPECIALS       Play special question types (default: true)
  ROUND_TIME          Time budget per round, 0 disables (default: 0s)
  PACE_*              Presentation delays, e.g. PACE_FINAL_THINK=45s

Examples:
  %s                  Start server with default settings
  %s --port 3000      Start server on port 3000

Visit http://localhost:8080 after starting the server.
`, os.Args[0], os.Args[0], os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("tvquiz %s\n", version)
		return
	}

	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	zerologlog.Logger = zerologlog.Output(cw)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		zerologlog.Fatal().Err(err).Msg("load .env")
	}
	cfg, err := config.FromEnv()
	if err != nil {
		zerologlog.Fatal().Err(err).Msg("config")
	}
	if *portFlag != "" {
		cfg.Port = *portFlag
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && lvl != zerolog.NoLevel {
		zerolog.SetGlobalLevel(lvl)
	} else {
		zerologlog.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, using info")
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		zerologlog.Info().Str("path", path).Int("status", c.Writer.Status()).Dur("dur", time.Since(start)).Msg("http")
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	opts := []game.ManagerOption{
		game.WithSingleSession(cfg.SingleSession),
		game.WithPacing(cfg.Pacing),
		game.WithLogger(zerologlog.Logger),
	}
	if cfg.ExportEnabled {
		opts = append(opts, game.WithExport(cfg.ExportFile))
	}
	rm := game.NewRoomManager(opts...)
	defer rm.Close()

	lib := pkgdoc.Library{Dir: cfg.PackagesDir}
	sock := ws.New(rm, lib, cfg)
	io := sock.Mount(r)
	defer io.Close()

	r.GET("/api/session/active", func(c *gin.Context) {
		if code, sess := rm.Active(); sess != nil {
			c.JSON(http.StatusOK, gin.H{"sessionCode": code})
			return
		}
		c.Status(http.StatusNotFound)
	})
	r.GET("/api/session/:code/state", func(c *gin.Context) {
		sess, err := rm.Get(c.Param("code"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session_not_found"})
			return
		}
		c.JSON(http.StatusOK, sess.State())
	})
	r.GET("/api/packages", func(c *gin.Context) {
		names, err := lib.Names()
		if err != nil {
			zerologlog.Error().Err(err).Msg("list packages")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list_failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"packages": names})
	})

	r.GET("/media/*any", gin.WrapH(staticserver.Media(filepath.Join(cfg.PackagesDir, "media"))))

	// Host-protected routes
	if cfg.HasHostAuth() {
		auth := gin.BasicAuth(gin.Accounts{cfg.GMUser: cfg.GMPass})
		r.GET("/host", auth, func(c *gin.Context) {
			staticserver.Handler().ServeHTTP(c.Writer, c.Request)
		})
		r.GET("/host/*any", auth, func(c *gin.Context) {
			staticserver.Handler().ServeHTTP(c.Writer, c.Request)
		})

		r.POST("/api/host/create", auth, func(c *gin.Context) {
			var req ws.CreateRequest
			if err := c.BindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
				return
			}
			code, hostToken, err := sock.StartSession(req)
			if errors.Is(err, pkgdoc.ErrPackageNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "package_not_found"})
				return
			}
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"sessionCode": code, "hostToken": hostToken})
		})
	}

	// Serve frontend (if embedded build is present) for all other routes
	r.NoRoute(func(c *gin.Context) {
		staticserver.Handler().ServeHTTP(c.Writer, c.Request)
	})

	zerologlog.Info().Str("port", cfg.Port).Str("packages", cfg.PackagesDir).Msg("listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		zerologlog.Fatal().Err(err).Msg("server")
	}
}
