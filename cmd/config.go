package cmd

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "viewspy"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	excludeFlagName  = "exclude"
	parallelFlagName = "parallel"
	fixtureFlagName  = "fixture"
	verboseFlagName  = "verbose"

	excludeConfigKey  = "paths.exclude"
	parallelConfigKey = "scan.parallel"
	fixtureConfigKey  = "check.fixture"

	defaultParallel = 4
	defaultFixture  = "viewspy.fixture.yaml"

	envPrefix = "VIEWSPY"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".viewspy.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(excludeConfigKey, []string{})
	viper.SetDefault(parallelConfigKey, defaultParallel)
	viper.SetDefault(fixtureConfigKey, defaultFixture)

	// log.filename accepts "-" for standard error.
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	var notFound viper.ConfigFileNotFoundError

	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
		configErr = fmt.Errorf("failed to read %s: %w", configFileName, err)
	}
}

// configErr holds a config file problem found during init. It is logged
// once the logger is up and the built-in defaults stay in effect.
var configErr error

// stderrLogPath as log.filename sends logs to standard error, which suits CI.
const stderrLogPath = "-"

var logLevels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// parseSlogLevel accepts a level name or a numeric slog level such as -4.
func parseSlogLevel(value string, fallback slog.Level) slog.Level {
	name := strings.ToLower(strings.TrimSpace(value))

	if level, ok := logLevels[name]; ok {
		return level
	}

	if n, err := strconv.Atoi(name); err == nil {
		return slog.Level(n)
	}

	return fallback
}

func logWriter(logPath string) io.Writer {
	if logPath == stderrLogPath {
		return os.Stderr
	}

	return &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}
}

// configureLogger installs the default slog logger. logPath falls back to
// log.filename, then to .viewspy.log; verbose forces debug level.
func configureLogger(logPath string, verbose bool) {
	logPath = cmp.Or(
		strings.TrimSpace(logPath),
		strings.TrimSpace(viper.GetString(logFilenameKey)),
		defaultLogFilename,
	)

	level := parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	if verbose {
		level = slog.LevelDebug
	}

	globalLogger = slog.New(slog.NewTextHandler(logWriter(logPath), &slog.HandlerOptions{
		AddSource: true,
		Level:     level,
	}))
	slog.SetDefault(globalLogger)

	if configErr != nil {
		slog.Warn("using default configuration", "error", configErr)
	}
}
