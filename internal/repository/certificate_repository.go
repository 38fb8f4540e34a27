package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"progress-service/internal/models"
)

type CertificateRepository struct {
	Col *mongo.Collection
}

func NewCertificateRepository(db *mongo.Database) *CertificateRepository {
	return &CertificateRepository{Col: db.Collection("certificates")}
}

func (r *CertificateRepository) Create(ctx context.Context, cert *models.Certificate) error {
	_, err := r.Col.InsertOne(ctx, cert)
	return err
}

// FindByUserAndKind returns nil without error when no certificate of that
// kind has been issued yet.
func (r *CertificateRepository) FindByUserAndKind(ctx context.Context, userID string, kind models.CertificateKind) (*models.Certificate, error) {
	var cert models.Certificate
	err := r.Col.FindOne(ctx, bson.M{"user_id": userID, "kind": string(kind)}).Decode(&cert)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *CertificateRepository) FindBySerial(ctx context.Context, serial string) (*models.Certificate, error) {
	var cert models.Certificate
	err := r.Col.FindOne(ctx, bson.M{"serial": serial}).Decode(&cert)
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *CertificateRepository) FindByUser(ctx context.Context, userID string) ([]models.Certificate, error) {
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var certs []models.Certificate
	for cur.Next(ctx) {
		var cert models.Certificate
		if err := cur.Decode(&cert); err != nil {
			return nil, err
		}
		certs = append(certs, cert)
	}
	return certs, nil
}
