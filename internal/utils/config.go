package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
)

var errMutuallyExclusive = errors.New("values are mutually exclusive")

// CreateConfigDir creates the config directory, if it doesn't already exist.
func CreateConfigDir(configDirPath string) error {
	_, err := os.Stat(configDirPath)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat config dir: %w", err)
	}
	if err := os.MkdirAll(configDirPath, 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	ancli.PrintOK(fmt.Sprintf("created config directory at: '%v'\n", configDirPath))
	return nil
}

// LoadConfigFromFile loads configFileName within configDirPath. The file is created
// from dflt if it doesn't exist. Fields which are zero in the file but set in
// dflt, such as fields added in a later release, are filled in from dflt and
// written back.
func LoadConfigFromFile[T any](configDirPath, configFileName string, dflt *T) (T, error) {
	var conf T
	configPath := filepath.Join(configDirPath, configFileName)
	debug := misc.Truthy(os.Getenv("DEBUG"))
	if debug {
		ancli.PrintOK(fmt.Sprintf("attempting to load file: %v\n", configPath))
	}

	if err := CreateConfigDir(configDirPath); err != nil {
		return conf, err
	}
	_, err := os.Stat(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := WriteJSONFile(configPath, dflt); err != nil {
			return conf, fmt.Errorf("failed to write default config '%v': %w", configFileName, err)
		}
		return *dflt, nil
	case err != nil:
		return conf, fmt.Errorf("failed to stat config '%v': %w", configFileName, err)
	}

	if err := ReadJSONFile(configPath, &conf); err != nil {
		return conf, fmt.Errorf("failed to load config '%v': %w", configFileName, err)
	}
	if backfillZeroFields(&conf, dflt) {
		if err := WriteJSONFile(configPath, &conf); err != nil {
			return conf, fmt.Errorf("failed to write back config '%v': %w", configFileName, err)
		}
		ancli.PrintOK(fmt.Sprintf("added new fields to config: %v\n", configPath))
	}
	if debug {
		ancli.PrintOK(fmt.Sprintf("found config: %+v\n", conf))
	}
	return conf, nil
}

// backfillZeroFields sets each exported zero field of dst to the value of the
// same field in src. Reports if anything changed. Non-struct types are left as is.
func backfillZeroFields[T any](dst, src *T) bool {
	if src == nil {
		return false
	}
	dv := reflect.ValueOf(dst).Elem()
	sv := reflect.ValueOf(src).Elem()
	if dv.Kind() != reflect.Struct {
		return false
	}
	changed := false
	for i := 0; i < dv.NumField(); i++ {
		if !dv.Type().Field(i).IsExported() {
			continue
		}
		if dv.Field(i).IsZero() && !sv.Field(i).IsZero() {
			dv.Field(i).Set(sv.Field(i))
			changed = true
		}
	}
	return changed
}

// ReturnNonDefault returns whichever of a and b isn't defaultVal. It's an error
// for both to be set, as they're expected to be the short and long form of the
// same flag.
func ReturnNonDefault[T comparable](a, b, defaultVal T) (T, error) {
	switch {
	case a != defaultVal && b != defaultVal:
		return defaultVal, errMutuallyExclusive
	case a != defaultVal:
		return a, nil
	default:
		return b, nil
	}
}

// IsMutuallyExclusive reports if err stems from ReturnNonDefault getting both values.
func IsMutuallyExclusive(err error) bool {
	return errors.Is(err, errMutuallyExclusive)
}
