package handlers

import (
	"faceregistry/domain/services"
	"faceregistry/infrastructure/faceapi"
)

// Handlers aggregates all HTTP handlers
type Handlers struct {
	Resolve *ResolveHandler
	Gallery *GalleryHandler
	Health  *HealthHandler
}

func NewHandlers(
	resolveService services.ResolveService,
	galleryService services.GalleryService,
	faceClient *faceapi.FaceClient,
) *Handlers {
	return &Handlers{
		Resolve: NewResolveHandler(resolveService),
		Gallery: NewGalleryHandler(galleryService),
		Health:  NewHealthHandler(faceClient),
	}
}
