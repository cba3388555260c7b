// Package util provides small cross-cutting helpers shared by the CLI
// and core packages.
package util

import (
	"context"
	"io"
	"sort"
	"sync"
	"sync/atomic"

	"deltasync/pkg/helper/errors"
	"deltasync/pkg/helper/log"
)

// ResourceCleaner provides centralized, priority-ordered resource
// cleanup. The CLI registers the old file, new file, and delta output
// ByteStreams here (§5's "scoped acquisition" guarantee: every handle
// closes on all exit paths, including error) rather than hand-rolling
// three separate defers.
type ResourceCleaner struct {
	resources []CleanupResource
	mutex     sync.Mutex
	logger    log.Logger
	cleaned   atomic.Bool
}

// CleanupResource represents a resource that needs cleanup.
type CleanupResource struct {
	Name     string
	Cleanup  func() error
	Priority int // Higher priority resources are cleaned first
}

// NewResourceCleaner creates a new resource cleaner.
func NewResourceCleaner(logger log.Logger) *ResourceCleaner {
	if logger == nil {
		logger = log.NewBasicLogger(log.InfoLevel)
	}
	return &ResourceCleaner{
		resources: make([]CleanupResource, 0),
		logger:    logger,
	}
}

// AddResource adds a resource for cleanup.
func (rc *ResourceCleaner) AddResource(name string, cleanup func() error, priority int) {
	rc.mutex.Lock()
	defer rc.mutex.Unlock()

	if rc.cleaned.Load() {
		rc.logger.WithField("resource", name).Warn("Attempted to add resource to already cleaned cleaner")
		return
	}

	rc.resources = append(rc.resources, CleanupResource{
		Name:     name,
		Cleanup:  cleanup,
		Priority: priority,
	})
}

// AddCloser adds an io.Closer for cleanup.
func (rc *ResourceCleaner) AddCloser(name string, closer io.Closer, priority int) {
	if closer == nil {
		return
	}
	rc.AddResource(name, func() error {
		return closer.Close()
	}, priority)
}

// AddCancelFunc adds a context cancel function for cleanup.
func (rc *ResourceCleaner) AddCancelFunc(name string, cancel context.CancelFunc, priority int) {
	if cancel == nil {
		return
	}
	rc.AddResource(name, func() error {
		cancel()
		return nil
	}, priority)
}

// CleanupAll performs cleanup of all resources in priority order.
// Calling it more than once is a no-op after the first call.
func (rc *ResourceCleaner) CleanupAll() error {
	if !rc.cleaned.CompareAndSwap(false, true) {
		return nil // Already cleaned
	}

	rc.mutex.Lock()
	defer rc.mutex.Unlock()

	resources := make([]CleanupResource, len(rc.resources))
	copy(resources, rc.resources)

	sort.Slice(resources, func(i, j int) bool {
		return resources[i].Priority > resources[j].Priority // Higher priority first
	})

	var cleanupErrors []error

	for _, resource := range resources {
		if resource.Cleanup == nil {
			continue
		}
		if err := resource.Cleanup(); err != nil {
			rc.logger.WithFields(map[string]interface{}{
				"resource": resource.Name,
				"priority": resource.Priority,
			}).WithError(err).Error("Resource cleanup failed", err)
			cleanupErrors = append(cleanupErrors, errors.Wrapf(err, "cleanup failed for %s", resource.Name))
			continue
		}
		rc.logger.WithFields(map[string]interface{}{
			"resource": resource.Name,
			"priority": resource.Priority,
		}).Debug("Resource cleaned successfully")
	}

	if len(cleanupErrors) > 0 {
		return errors.Multiple(cleanupErrors...)
	}

	return nil
}

// DeferCleanupAll runs CleanupAll and logs (rather than propagates) any
// failure; intended for use with `defer`.
func (rc *ResourceCleaner) DeferCleanupAll() {
	if err := rc.CleanupAll(); err != nil {
		rc.logger.WithError(err).Error("Deferred cleanup failed", err)
	}
}
