package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/beratbaran/flyticket/api"
	"github.com/beratbaran/flyticket/config"
	"github.com/beratbaran/flyticket/internal/service/auth"
	"github.com/beratbaran/flyticket/internal/service/cities"
	"github.com/beratbaran/flyticket/internal/service/flights"
	"github.com/beratbaran/flyticket/internal/service/tickets"
	"github.com/gin-gonic/gin"
)

// NewRouter wires every handler onto the /api surface.
func NewRouter(flightSvc flights.FlightUseCase, ticketSvc tickets.TicketUseCase, citySvc cities.CityUseCase, authSvc auth.AuthUseCase) *gin.Engine {
	router := gin.Default()

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "FlyTicket API Running!")
	})

	authRequired := api.RequireAuth(authSvc)
	group := router.Group("/api")

	api.NewFlightHandler(flightSvc).Register(group.Group("/flights"), authRequired)
	api.NewTicketHandler(ticketSvc).Register(group.Group("/tickets"))
	api.NewCityHandler(citySvc).Register(group.Group("/city"), authRequired)
	api.NewAuthHandler(authSvc).Register(group.Group("/auth"))

	return router
}

// Run serves the router and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, router *gin.Engine) error {
	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
