package mongo

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoClient holds the MongoDB client connection
var mongoClient *mongo.Client

// mongoDatabase holds the application database handle
var mongoDatabase *mongo.Database

// Init initializes the MongoDB connection and sets the global client
func Init(url, dbName string) *mongo.Database {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	// Test the connection
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}

	log.Println("Successfully connected to MongoDB")
	mongoClient = client
	mongoDatabase = client.Database(dbName)

	return mongoDatabase
}

// GetDB returns the global database handle
func GetDB() *mongo.Database {
	return mongoDatabase
}

// Close closes the MongoDB client connection
func Close() error {
	if mongoClient != nil {
		log.Println("Closing MongoDB connection...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return mongoClient.Disconnect(ctx)
	}
	return nil
}
