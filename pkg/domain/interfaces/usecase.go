package interfaces

//go:generate moq -out mocks/usecase_mock.go -pkg mocks . ODataUseCase

import (
	"context"

	"github.com/fiware/odataserver/pkg/domain/model"
)

// ODataUseCase defines the read operations exposed by the OData service
type ODataUseCase interface {
	// ServiceDocument lists the entity sets published in the service document
	ServiceDocument(ctx context.Context, serviceRoot string) (model.Document, error)

	// Metadata renders the CSDL document in the requested format and
	// returns it with its content type
	Metadata(ctx context.Context, format string) ([]byte, string, error)

	// Resource resolves and reads an entity set, entity, property or count
	Resource(ctx context.Context, req *model.ResourceRequest) (*model.ResourceResult, error)

	// Health checks the document store
	Health(ctx context.Context) error
}
