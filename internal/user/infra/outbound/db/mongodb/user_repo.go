package mongodb

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	paging "github.com/davicafu/hexapager/internal/pagination/domain"
	"github.com/davicafu/hexapager/internal/pagination/infra/outbound/mongostore"
	userDomain "github.com/davicafu/hexapager/internal/user/domain"
)

// UserRepoMongoDB implementa UserRepository para MongoDB.
// El documento usa los tags bson de domain.User, así que los filtros dinámicos
// navegan las mismas rutas que se guardan.
type UserRepoMongoDB struct {
	usersColl *mongo.Collection
}

// Verificación estática
var _ userDomain.UserRepository = (*UserRepoMongoDB)(nil)

// NewUserRepoMongoDB es el constructor del repositorio.
func NewUserRepoMongoDB(ctx context.Context, client *mongo.Client, dbName string) (*UserRepoMongoDB, error) {
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("could not ping mongoDB: %w", err)
	}

	return &UserRepoMongoDB{
		usersColl: client.Database(dbName).Collection("users"),
	}, nil
}

// --- Operaciones ---

func (r *UserRepoMongoDB) Create(ctx context.Context, u *userDomain.User) error {
	if _, err := r.usersColl.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return userDomain.ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *UserRepoMongoDB) GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error) {
	return userDomain.FindByID(ctx, r.Query(), id)
}

func (r *UserRepoMongoDB) Query() paging.Query[userDomain.User] {
	return mongostore.NewQuery[userDomain.User](r.usersColl)
}

// --- Inicialización ---

// InitMongo crea los índices de la colección: email único y created_at para ordenar.
func InitMongo(ctx context.Context, client *mongo.Client, dbName string) error {
	coll := client.Database(dbName).Collection("users")
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	})
	return err
}
