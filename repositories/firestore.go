package repositories

import (
	"context"
	"time"

	"beautyconsult-backend/models"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/datatypes"
)

const (
	HistoryCollection = "consultingHistory"
	VisualCollection  = "visualDetails"
)

// NewFirestoreClient opens a client. An empty credentialsFile falls back to
// application default credentials.
func NewFirestoreClient(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	return firestore.NewClient(ctx, projectID, opts...)
}

func notFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// ── History ───────────────────────────────────────────────────────────────────

type historyDoc struct {
	Customer  models.CustomerSnapshot `firestore:"customerFormData"`
	Consult   models.ConsultLine      `firestore:"consultFormData"`
	Rows      []models.LedgerRow      `firestore:"tableData"`
	UserID    string                  `firestore:"userId"`
	Username  string                  `firestore:"username"`
	CreatedAt time.Time               `firestore:"createdAt"`
}

func (d historyDoc) record(id string) models.HistoryRecord {
	rec := models.NewHistoryRecord(d.Customer, d.Consult, d.Rows)
	rec.ID = id
	rec.UserID = d.UserID
	rec.Username = d.Username
	rec.CreatedAt = d.CreatedAt
	return rec
}

type firestoreHistoryRepository struct {
	client *firestore.Client
}

func NewFirestoreHistoryRepository(client *firestore.Client) HistoryRepository {
	return &firestoreHistoryRepository{client: client}
}

func (r *firestoreHistoryRepository) Create(ctx context.Context, rec *models.HistoryRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	doc := historyDoc{
		Customer:  rec.Customer.Data(),
		Consult:   rec.Consult.Data(),
		Rows:      []models.LedgerRow(rec.Rows),
		UserID:    rec.UserID,
		Username:  rec.Username,
		CreatedAt: rec.CreatedAt,
	}
	ref, _, err := r.client.Collection(HistoryCollection).Add(ctx, doc)
	if err != nil {
		return err
	}
	rec.ID = ref.ID
	return nil
}

func (r *firestoreHistoryRepository) List(ctx context.Context) ([]models.HistoryRecord, error) {
	snaps, err := r.client.Collection(HistoryCollection).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	out := make([]models.HistoryRecord, 0, len(snaps))
	for _, s := range snaps {
		var d historyDoc
		if err := s.DataTo(&d); err != nil {
			return nil, err
		}
		out = append(out, d.record(s.Ref.ID))
	}
	return out, nil
}

func (r *firestoreHistoryRepository) FindByID(ctx context.Context, id string) (*models.HistoryRecord, error) {
	s, err := r.client.Collection(HistoryCollection).Doc(id).Get(ctx)
	if notFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var d historyDoc
	if err := s.DataTo(&d); err != nil {
		return nil, err
	}
	rec := d.record(s.Ref.ID)
	return &rec, nil
}

func (r *firestoreHistoryRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(HistoryCollection).Doc(id).Delete(ctx, firestore.Exists)
	if notFound(err) {
		return ErrNotFound
	}
	return err
}

// ── Visual details ────────────────────────────────────────────────────────────

type visualDoc struct {
	Images       []string  `firestore:"images"`
	Description  string    `firestore:"description"`
	DetailImages []string  `firestore:"detailImages"`
	CreatedBy    string    `firestore:"createdBy"`
	CreatedAt    time.Time `firestore:"createdAt"`
}

func (d visualDoc) detail(id string) models.VisualDetail {
	return models.VisualDetail{
		ID:           id,
		Images:       datatypes.JSONSlice[string](d.Images),
		Description:  d.Description,
		DetailImages: datatypes.JSONSlice[string](d.DetailImages),
		CreatedBy:    d.CreatedBy,
		CreatedAt:    d.CreatedAt,
	}
}

type firestoreVisualRepository struct {
	client *firestore.Client
}

func NewFirestoreVisualRepository(client *firestore.Client) VisualRepository {
	return &firestoreVisualRepository{client: client}
}

func (r *firestoreVisualRepository) Create(ctx context.Context, v *models.VisualDetail) error {
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	ref, _, err := r.client.Collection(VisualCollection).Add(ctx, visualDoc{
		Images:       []string(v.Images),
		Description:  v.Description,
		DetailImages: []string(v.DetailImages),
		CreatedBy:    v.CreatedBy,
		CreatedAt:    v.CreatedAt,
	})
	if err != nil {
		return err
	}
	v.ID = ref.ID
	return nil
}

func (r *firestoreVisualRepository) List(ctx context.Context) ([]models.VisualDetail, error) {
	snaps, err := r.client.Collection(VisualCollection).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	out := make([]models.VisualDetail, 0, len(snaps))
	for _, s := range snaps {
		var d visualDoc
		if err := s.DataTo(&d); err != nil {
			return nil, err
		}
		out = append(out, d.detail(s.Ref.ID))
	}
	return out, nil
}

func (r *firestoreVisualRepository) FindByID(ctx context.Context, id string) (*models.VisualDetail, error) {
	s, err := r.client.Collection(VisualCollection).Doc(id).Get(ctx)
	if notFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var d visualDoc
	if err := s.DataTo(&d); err != nil {
		return nil, err
	}
	v := d.detail(s.Ref.ID)
	return &v, nil
}

func (r *firestoreVisualRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(VisualCollection).Doc(id).Delete(ctx, firestore.Exists)
	if notFound(err) {
		return ErrNotFound
	}
	return err
}
