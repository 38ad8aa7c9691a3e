package profile

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	appmiddleware "github.com/janisto/profilehub/internal/middleware"
)

const profilesCollection = "profiles"

// firestoreProfile maps to the Firestore document structure. The document ID
// is the normalized email, which makes the uniqueness constraint structural.
type firestoreProfile struct {
	ID        string    `firestore:"id"`
	Name      string    `firestore:"name"`
	Email     string    `firestore:"email"`
	Age       int       `firestore:"age"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func (fp firestoreProfile) toProfile() *Profile {
	return &Profile{
		ID:        fp.ID,
		Name:      fp.Name,
		Email:     fp.Email,
		Age:       fp.Age,
		CreatedAt: fp.CreatedAt,
		UpdatedAt: fp.UpdatedAt,
	}
}

// FirestoreStore implements Store on a Firestore collection, using
// transactions to arbitrate concurrent writes for the same email.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateOrUpdate inserts a profile for a new email or overwrites the mutable
// fields of the existing record. A racing insert for the same email loses the
// transaction and surfaces ErrDuplicateEmail.
func (s *FirestoreStore) CreateOrUpdate(ctx context.Context, params SaveParams) (*Profile, bool, error) {
	email := normalizeEmail(params.Email)
	docRef := s.client.Collection(profilesCollection).Doc(email)
	now := time.Now().UTC()

	var (
		result  *Profile
		created bool
	)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		switch {
		case err == nil && doc.Exists():
			var fp firestoreProfile
			if err := doc.DataTo(&fp); err != nil {
				return err
			}
			fp.Name = params.Name
			fp.Age = params.Age
			fp.UpdatedAt = now
			if err := tx.Set(docRef, fp); err != nil {
				return err
			}
			result = fp.toProfile()
			created = false
			return nil
		case err != nil && status.Code(err) != codes.NotFound:
			return err
		}

		fp := firestoreProfile{
			ID:        uuid.NewString(),
			Name:      params.Name,
			Email:     email,
			Age:       params.Age,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Create(docRef, fp); err != nil {
			return err
		}
		result = fp.toProfile()
		created = true
		return nil
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, false, ErrDuplicateEmail
		}
		return nil, false, err
	}

	appmiddleware.LogInfo(ctx, "profile saved",
		zap.String("email", email),
		zap.Bool("created", created),
	)
	return result, created, nil
}

// GetByEmail retrieves a profile by normalized email.
func (s *FirestoreStore) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	docRef := s.client.Collection(profilesCollection).Doc(normalizeEmail(email))
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var fp firestoreProfile
	if err := doc.DataTo(&fp); err != nil {
		return nil, err
	}
	return fp.toProfile(), nil
}

// ListAll returns every profile, newest-created first.
func (s *FirestoreStore) ListAll(ctx context.Context) ([]*Profile, error) {
	iter := s.client.Collection(profilesCollection).
		OrderBy("created_at", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	profiles := make([]*Profile, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var fp firestoreProfile
		if err := doc.DataTo(&fp); err != nil {
			return nil, err
		}
		profiles = append(profiles, fp.toProfile())
	}
	return profiles, nil
}

// DeleteByEmail removes a profile, using a transaction to confirm it exists.
func (s *FirestoreStore) DeleteByEmail(ctx context.Context, email string) error {
	docRef := s.client.Collection(profilesCollection).Doc(normalizeEmail(email))

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(docRef); err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}
		return tx.Delete(docRef)
	})
	if err != nil {
		return err
	}

	appmiddleware.LogInfo(ctx, "profile deleted", zap.String("email", normalizeEmail(email)))
	return nil
}

// Compile-time interface check
var _ Store = (*FirestoreStore)(nil)
