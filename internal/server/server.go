package server

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mdouchement/medvault/internal/database"
	"github.com/mdouchement/medvault/internal/model"
	"github.com/mdouchement/medvault/internal/server/middlewares"
	"github.com/mdouchement/medvault/internal/server/service"
	"github.com/mdouchement/medvault/internal/server/session"
	"github.com/mdouchement/medvault/pkg/libmv"
)

// An IOC is an Iversion Of Control pattern used to init the server package.
type IOC struct {
	Version        string
	Database       database.Client
	Realm          string
	FilesPath      string
	NoRegistration bool
	// Session params
	AccessTokenExpirationTime time.Duration
}

// EchoEngine instantiates the wep server.
func EchoEngine(ctrl IOC) *echo.Echo {
	if ctrl.Realm == "" {
		ctrl.Realm = libmv.DefaultRealm
	}

	engine := echo.New()
	engine.Use(middleware.Recover())
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig))
	engine.Use(middleware.Gzip())

	engine.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "[${status}] ${method} ${uri} (${bytes_in}) ${latency_human}\n",
	}))
	engine.Binder = middlewares.NewBinder()
	// Error handler
	engine.HTTPErrorHandler = middlewares.HTTPErrorHandler

	// Records are created on `med_records/` and listed on `med_records`.
	engine.Pre(middleware.RemoveTrailingSlash())
	engine.Pre(middleware.Rewrite(map[string]string{
		"/": "/version",
	}))

	////////////
	// Router //
	////////////

	sessions := session.NewManager(ctrl.Database, ctrl.AccessTokenExpirationTime)

	router := engine.Group("")
	restricted := router.Group("")
	restricted.Use(middlewares.Session(sessions))

	// generic handlers
	//
	router.GET("/version", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"version": ctrl.Version,
		})
	})

	//
	// auth handlers
	//
	auth := &auth{
		db:       ctrl.Database,
		sessions: sessions,
	}
	prefix := "/auth/" + ctrl.Realm
	if !ctrl.NoRegistration {
		router.POST(prefix+"/register", auth.Register)
	}
	router.POST(prefix+"/login", auth.Login)
	restricted.POST(prefix+"/logout", auth.Logout)

	//
	// record handlers
	//
	prefix = "/documents/" + ctrl.Realm + "/med_records"
	record := &record{
		db:      ctrl.Database,
		service: service.NewRecord(ctrl.Database, ctrl.FilesPath),
		prefix:  prefix,
	}
	restricted.POST(prefix, record.Create)
	restricted.GET(prefix, record.List)
	restricted.GET(prefix+"/:id/files/:file_id", record.File)

	return engine
}

// PrintRoutes prints the Echo engin exposed routes.
func PrintRoutes(e *echo.Echo) {
	ignored := map[string]bool{
		"":   true,
		".":  true,
		"/*": true,
	}

	routes := e.Routes()
	sort.Slice(routes, func(i int, j int) bool {
		return routes[i].Path < routes[j].Path
	})

	fmt.Println("Routes:")
	for _, route := range routes {
		if ignored[route.Path] {
			continue
		}
		fmt.Printf("%6s %s\n", route.Method, route.Path)
	}
}

func currentUser(c echo.Context) *model.User {
	user, ok := c.Get(middlewares.CurrentUserContextKey).(*model.User)
	if ok {
		return user
	}
	return nil
}

func currentSession(c echo.Context) *model.Session {
	session, ok := c.Get(middlewares.CurrentSessionContextKey).(*model.Session)
	if ok {
		return session
	}
	return nil
}
