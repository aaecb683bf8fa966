package cmd

import (
	"fmt"

	"github.com/tristendillon/cppbind/core/config"
	"github.com/tristendillon/cppbind/core/frontend"
	"github.com/tristendillon/cppbind/core/frontend/libclang"
	"github.com/tristendillon/cppbind/core/frontend/treesitter"
	"github.com/tristendillon/cppbind/core/logger"
)

func newParser(cfg *config.Config) (frontend.Parser, error) {
	logger.Debug("Using %s front-end", cfg.Frontend)
	switch cfg.Frontend {
	case config.FrontendClang:
		return libclang.New(cfg)
	case config.FrontendTreeSitter:
		return treesitter.New(treesitter.DefinesFromArgs(cfg.ClangArgs)...), nil
	default:
		return nil, fmt.Errorf("%w: unknown frontend %q", config.ErrInvalidConfig, cfg.Frontend)
	}
}
