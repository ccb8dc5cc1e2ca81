// Package config reads the supplementary system description of a robot: the feet used for contact
// and the default posture of its joints.
package config

import (
	"os"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// RobotNamespace is the top-level key holding the system description.
const RobotNamespace = "robot"

// SystemConfig describes the parts of a robot that the URDF does not.
type SystemConfig struct {
	// Feet lists the end-effectors in contact with the ground. Nil when the description has no
	// foot list.
	Feet []string `mapstructure:"feet"`
	// DefaultPose maps joint names to their default position.
	DefaultPose map[string]float64 `mapstructure:"default_pose"`
}

// ReadSystemConfigFile reads a system description from a YAML file.
func ReadSystemConfigFile(path string) (*SystemConfig, error) {
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read system description")
	}
	return UnmarshalSystemConfig(data)
}

// UnmarshalSystemConfig decodes the robot namespace of a YAML system description. A document
// without the namespace yields an empty config.
func UnmarshalSystemConfig(data []byte) (*SystemConfig, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse system description")
	}
	cfg := &SystemConfig{}
	robot, ok := doc[RobotNamespace]
	if !ok || robot == nil {
		return cfg, nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      false,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(robot); err != nil {
		return nil, errors.Wrapf(err, "failed to decode %q namespace", RobotNamespace)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures all parts of the config are valid.
func (cfg *SystemConfig) Validate() error {
	var errs error
	seen := map[string]bool{}
	for _, foot := range cfg.Feet {
		if foot == "" {
			errs = multierr.Append(errs, errors.New("foot name cannot be empty"))
			continue
		}
		if seen[foot] {
			errs = multierr.Append(errs, errors.Errorf("foot %q listed twice", foot))
		}
		seen[foot] = true
	}
	for joint := range cfg.DefaultPose {
		if joint == "" {
			errs = multierr.Append(errs, errors.New("default pose has an entry without a joint name"))
		}
	}
	return errs
}

// HasFeet returns whether the description lists the feet explicitly.
func (cfg *SystemConfig) HasFeet() bool {
	return cfg != nil && cfg.Feet != nil
}
