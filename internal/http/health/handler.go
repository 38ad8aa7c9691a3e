package health

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"

	apiinternal "github.com/janisto/profilehub/internal/api"
	"github.com/janisto/profilehub/internal/timeutil"
)

// Data is the liveness payload.
type Data struct {
	Timestamp timeutil.Time `json:"timestamp" doc:"Server time at the moment of the check"`
}

// Output is the response wrapper for the health endpoint.
type Output struct {
	Body apiinternal.Envelope[Data]
}

// Register adds the liveness endpoint.
func Register(api huma.API) {
	huma.Get(api, "/health", func(_ context.Context, _ *struct{}) (*Output, error) {
		return &Output{
			Body: apiinternal.Success("Server is running", Data{
				Timestamp: timeutil.New(time.Now()),
			}),
		}, nil
	})
}
