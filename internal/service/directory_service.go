package service

import (
	"context"

	"github.com/mara/opsdesk/internal/cache"
	"github.com/mara/opsdesk/internal/domain"
	"github.com/mara/opsdesk/internal/remote"
)

// DirectoryService manages the client and project records themselves.
// These mutations cascade widely (deleting a project orphans entries and
// invoices server-side), so each one runs its synchronizer row before
// resolving.
type DirectoryService interface {
	Clients() []*domain.Client
	Projects() []*domain.Project

	CreateClient(ctx context.Context, client *domain.Client) (*domain.Client, error)
	DeleteClient(ctx context.Context, id string) error

	CreateProject(ctx context.Context, project *domain.Project) (*domain.Project, error)
	UpdateProject(ctx context.Context, project *domain.Project) (*domain.Project, error)
	DeleteProject(ctx context.Context, id string) error
}

type directoryService struct {
	remote remote.Service
	caches *cache.Caches
	syncer SyncService
}

// NewDirectoryService creates a directory service.
func NewDirectoryService(svc remote.Service, caches *cache.Caches, syncer SyncService) DirectoryService {
	return &directoryService{remote: svc, caches: caches, syncer: syncer}
}

func (s *directoryService) Clients() []*domain.Client {
	return s.caches.Clients.Items()
}

func (s *directoryService) Projects() []*domain.Project {
	return s.caches.Projects.Items()
}

func (s *directoryService) CreateClient(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	if err := client.Validate(); err != nil {
		return nil, err
	}
	created, err := s.remote.CreateClient(ctx, client)
	if err != nil {
		return nil, err
	}
	return created, s.syncer.Synchronize(ctx, MutationClient)
}

func (s *directoryService) DeleteClient(ctx context.Context, id string) error {
	if err := s.remote.DeleteClient(ctx, id); err != nil {
		return err
	}
	return s.syncer.Synchronize(ctx, MutationClient)
}

func (s *directoryService) CreateProject(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	if err := project.Validate(); err != nil {
		return nil, err
	}
	created, err := s.remote.CreateProject(ctx, project)
	if err != nil {
		return nil, err
	}
	return created, s.syncer.Synchronize(ctx, MutationProject)
}

func (s *directoryService) UpdateProject(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	if err := project.Validate(); err != nil {
		return nil, err
	}
	updated, err := s.remote.UpdateProject(ctx, project)
	if err != nil {
		return nil, err
	}
	return updated, s.syncer.Synchronize(ctx, MutationProject)
}

func (s *directoryService) DeleteProject(ctx context.Context, id string) error {
	if err := s.remote.DeleteProject(ctx, id); err != nil {
		return err
	}
	return s.syncer.Synchronize(ctx, MutationProject)
}
