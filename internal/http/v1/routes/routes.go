package routes

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/profilehub/internal/http/health"
	"github.com/janisto/profilehub/internal/http/v1/profile"
	profilesvc "github.com/janisto/profilehub/internal/service/profile"
)

// Register wires all HTTP routes into the provided API router.
func Register(api huma.API, store profilesvc.Store) {
	health.Register(api)
	profile.Register(api, store)
}
