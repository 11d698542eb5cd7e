package core

import (
	"fmt"

	"github.com/kilupskalvis/wit/internal/config"
	"github.com/kilupskalvis/wit/internal/store"
)

// Init creates a repository rooted at root, or leaves an existing one as it is.
func Init(root string) (*config.Config, *store.Store, error) {
	cfg, err := config.Initialize(root)
	if err != nil {
		return nil, nil, err
	}

	st := store.Open(root)
	if err := st.Initialize(); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	return cfg, st, nil
}
