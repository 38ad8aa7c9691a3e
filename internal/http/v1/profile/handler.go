package profile

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	apiinternal "github.com/janisto/profilehub/internal/api"
	"github.com/janisto/profilehub/internal/respond"
	profilesvc "github.com/janisto/profilehub/internal/service/profile"
	"github.com/janisto/profilehub/internal/validation"
)

const (
	msgCreated         = "Profile created successfully"
	msgUpdated         = "Profile updated successfully"
	msgDeleted         = "Profile deleted successfully"
	msgRetrieved       = "Profile retrieved successfully"
	msgListed          = "Profiles retrieved successfully"
	msgNotFound        = "Profile not found"
	msgDuplicateEmail  = "Email already exists"
	msgValidation      = "Validation failed"
	msgInternalFailure = "Internal server error"
)

// Register registers the profile endpoints.
func Register(api huma.API, store profilesvc.Store) {
	huma.Register(api, huma.Operation{
		OperationID: "save-profile",
		Method:      http.MethodPost,
		Path:        "/api/profiles",
		Summary:     "Create or update a profile",
		Description: "Creates a profile for a new email or overwrites name and age of the existing record. Email is the natural key and is matched case-insensitively.",
		Tags:        []string{"Profiles"},
	}, func(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
		cand := validation.Normalize(input.Body.Name, input.Body.Email, input.Body.Age)
		if fieldErrors := validation.Run(cand); len(fieldErrors) > 0 {
			return nil, respond.Error(ctx, http.StatusBadRequest, msgValidation, fieldErrors)
		}

		record, created, err := store.CreateOrUpdate(ctx, profilesvc.SaveParams{
			Name:  cand.Name,
			Email: cand.Email,
			Age:   cand.Age,
		})
		if err != nil {
			return nil, mapStoreError(ctx, err)
		}

		status, message := http.StatusOK, msgUpdated
		if created {
			status, message = http.StatusCreated, msgCreated
		}
		return &SaveOutput{
			Status: status,
			Body:   apiinternal.Success(message, toHTTPProfile(record)),
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-profile",
		Method:      http.MethodGet,
		Path:        "/api/profiles/{email}",
		Summary:     "Get a profile by email",
		Tags:        []string{"Profiles"},
	}, func(ctx context.Context, input *EmailInput) (*GetOutput, error) {
		record, err := store.GetByEmail(ctx, input.Email)
		if err != nil {
			return nil, mapStoreError(ctx, err)
		}
		return &GetOutput{
			Body: apiinternal.Success(msgRetrieved, toHTTPProfile(record)),
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-profiles",
		Method:      http.MethodGet,
		Path:        "/api/profiles",
		Summary:     "List all profiles",
		Description: "Returns every profile, newest-created first.",
		Tags:        []string{"Profiles"},
	}, func(ctx context.Context, _ *ListInput) (*ListOutput, error) {
		records, err := store.ListAll(ctx)
		if err != nil {
			return nil, mapStoreError(ctx, err)
		}
		return &ListOutput{
			Body: apiinternal.SuccessList(msgListed, toHTTPProfiles(records)),
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-profile",
		Method:      http.MethodDelete,
		Path:        "/api/profiles/{email}",
		Summary:     "Delete a profile by email",
		Tags:        []string{"Profiles"},
	}, func(ctx context.Context, input *EmailInput) (*DeleteOutput, error) {
		if err := store.DeleteByEmail(ctx, input.Email); err != nil {
			return nil, mapStoreError(ctx, err)
		}
		return &DeleteOutput{
			Body: apiinternal.SuccessMessage[struct{}](msgDeleted),
		}, nil
	})
}

func mapStoreError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, profilesvc.ErrNotFound):
		return respond.Error(ctx, http.StatusNotFound, msgNotFound, nil)
	case errors.Is(err, profilesvc.ErrDuplicateEmail):
		// A racing insert lost to the store's uniqueness constraint.
		return respond.Error(ctx, http.StatusBadRequest, msgDuplicateEmail, nil)
	default:
		return respond.Error(ctx, http.StatusInternalServerError, msgInternalFailure, nil, err)
	}
}
