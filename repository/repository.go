// Package repository holds the MongoDB backed stores.
package repository

import (
	"errors"
	"time"

	"github.com/dryp/marketplace/apperror"
	"github.com/dryp/marketplace/utils"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const (
	readTimeout  = 5 * time.Second
	writeTimeout = 5 * time.Second
	listTimeout  = 10 * time.Second
)

// notFound turns mongo.ErrNoDocuments into a NotFoundError for resource.
func notFound(err error, resource string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperror.NotFound(resource)
	}
	return err
}

// conflict turns a duplicate key error into a ConflictError on field.
func conflict(err error, field, msg string) error {
	if utils.IsDuplicateKey(err) {
		return apperror.Conflict(field, msg)
	}
	return err
}
