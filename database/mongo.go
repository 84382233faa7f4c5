package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var (
	// MongoClient is the shared Mongo client for the catalog.
	MongoClient *mongo.Client
	// CatalogDB is the catalog database handle.
	CatalogDB *mongo.Database
)

// ConnectMongo connects to the catalog MongoDB and pings it.
func ConnectMongo(mongoURL, dbName string, logger *zap.Logger) error {
	timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(timeoutCtx, options.Client().ApplyURI(mongoURL))
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(timeoutCtx, nil); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	MongoClient = client
	CatalogDB = client.Database(dbName)
	logger.Info("Connected to MongoDB", zap.String("db", dbName))
	return nil
}

// CloseMongo disconnects from MongoDB.
func CloseMongo() error {
	if MongoClient == nil {
		return nil
	}
	disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := MongoClient.Disconnect(disconnectCtx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}
	return nil
}
