package main

import (
	"fmt"
	"io"
	"os/exec"

	"go.uber.org/zap/zapcore"

	leet2tex "github.com/alnah/go-leet2tex"
	"github.com/alnah/go-leet2tex/internal/config"
	"github.com/alnah/go-leet2tex/internal/leetcode"
	"github.com/alnah/go-leet2tex/internal/logger"
	"github.com/alnah/go-leet2tex/internal/pipeline"
)

// lookPath resolves an executable on PATH.
var lookPath = exec.LookPath

// loadConfig resolves configuration in increasing priority:
// defaults, config file, LEET2TEX_* variables, then flags.
func loadConfig(common commonFlags, pipe pipelineFlags, env *Environment) (*config.Config, error) {
	warnUnknownEnvVars(env.Stderr)
	envCfg := loadEnvConfig()

	cfg := config.DefaultConfig()
	configName := common.config
	if configName == "" {
		configName = envCfg.ConfigPath
	}
	if configName != "" {
		loaded, err := config.LoadConfig(configName)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	applyPipelineFlags(pipe, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyPipelineFlags overrides cfg with every flag that was given.
func applyPipelineFlags(f pipelineFlags, cfg *config.Config) {
	if f.converter != "" {
		cfg.Converter.Backend = f.converter
	}
	if f.language != "" {
		cfg.LeetCode.Language = f.language
	}
	if f.timeout != "" {
		cfg.LeetCode.Timeout = f.timeout
		cfg.Converter.Timeout = f.timeout
	}
}

// newLogger builds the command logger. Quiet wins over verbose.
func newLogger(cfg *config.Config, common commonFlags, level zapcore.Level, w io.Writer) (*logger.Logger, error) {
	switch {
	case common.quiet:
		level = zapcore.ErrorLevel
	case common.verbose:
		level = zapcore.DebugLevel
	}
	return logger.New(cfg.Log.Mode, logger.WithLevel(level), logger.WithOutput(w))
}

// newSource returns env.Source or a LeetCode client built from cfg.
func newSource(cfg *config.Config, env *Environment) leet2tex.Source {
	if env.Source != nil {
		return env.Source
	}

	opts := []leetcode.Option{
		leetcode.WithGraphQLURL(cfg.LeetCode.GraphQLURL),
		leetcode.WithDocumentsURL(cfg.LeetCode.DocumentsURL),
		leetcode.WithImagesURL(cfg.LeetCode.ImagesURL),
		leetcode.WithCredentials(cfg.LeetCode.Session, cfg.LeetCode.CSRFToken),
	}
	if d := cfg.LeetCodeTimeout(); d > 0 {
		opts = append(opts, leetcode.WithTimeout(d))
	}
	return leetcode.New(opts...)
}

// newConverter returns env.Converter or the configured backend. The pandoc
// backend is resolved on PATH up front so a missing binary fails before any
// request is made.
func newConverter(cfg *config.Config, env *Environment) (pipeline.LatexConverter, error) {
	if env.Converter != nil {
		return env.Converter, nil
	}
	if cfg.Converter.Backend == config.BackendGoldmark {
		return pipeline.NewGoldmarkConverter(), nil
	}

	path, err := resolvePandoc(cfg, env)
	if err != nil {
		return nil, err
	}
	return pipeline.NewPandocConverter(path, cfg.ConverterTimeout()), nil
}

func resolvePandoc(cfg *config.Config, env *Environment) (string, error) {
	name := cfg.Converter.PandocPath
	if name == "" {
		name = pipeline.DefaultPandocPath
	}
	look := env.LookPath
	if look == nil {
		look = lookPath
	}
	path, err := look(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", pipeline.ErrConverterNotFound, name)
	}
	return path, nil
}

// libraryOptions translates the resolved runtime into library options.
// A nil converter keeps the library default.
func libraryOptions(cfg *config.Config, src leet2tex.Source, conv pipeline.LatexConverter, log *logger.Logger) []leet2tex.Option {
	opts := []leet2tex.Option{
		leet2tex.WithSource(src),
		leet2tex.WithConverter(conv),
		leet2tex.WithLogger(log),
	}
	if cfg.LeetCode.Language != "" {
		opts = append(opts, leet2tex.WithLanguage(cfg.LeetCode.Language))
	}
	return opts
}
