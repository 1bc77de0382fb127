package relisp

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is a typed settings map, adapted from the teacher's
// grammar/compiler Config (config.go) and generalized to the
// runtime's own tunables: GC threshold, max call depth, and socket
// defaults (spec §4.2/§4.3/§4.7).
type Config map[string]*cfgVal

// NewConfig creates a configuration primed with the runtime's
// compiled-in defaults.
func NewConfig() *Config {
	m := make(Config)
	m.SetInt("gc.threshold_bytes", 200*1024)
	m.SetInt("apply.max_depth", 250)
	m.SetInt("apply.small_argv_threshold", 32)
	m.SetInt("socket.accept_timeout_ms", 1000)
	m.SetBool("log.verbose", false)
	return &m
}

// LoadConfig reads a YAML document from path and overlays it onto the
// compiled-in defaults: keys the document omits keep their default
// value. The document's top-level keys are dotted paths, e.g.
// `gc.threshold_bytes: 131072`.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "relisp: reading config %s", path)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, "relisp: parsing config %s", path)
	}
	cfg := NewConfig()
	for k, v := range raw {
		switch tv := v.(type) {
		case bool:
			cfg.SetBool(k, tv)
		case int:
			cfg.SetInt(k, tv)
		case string:
			cfg.SetString(k, tv)
		default:
			return nil, errors.Errorf("relisp: config key %q has unsupported type %T", k, v)
		}
	}
	return cfg, nil
}

type cfgValType int

const (
	cfgValType_Undefined cfgValType = iota
	cfgValType_Bool
	cfgValType_Int
	cfgValType_String
)

func (vt cfgValType) String() string {
	return map[cfgValType]string{
		cfgValType_Undefined: "undefined",
		cfgValType_Bool:      "bool",
		cfgValType_Int:       "int",
		cfgValType_String:    "string",
	}[vt]
}

type cfgVal struct {
	typ      cfgValType
	asBool   bool
	asInt    int
	asString string
}

func (v *cfgVal) assignType(vt cfgValType) {
	if v.typ != vt && v.typ != cfgValType_Undefined {
		panic("relisp: can't assign `" + vt.String() + "` to type `" + v.typ.String() + "`")
	}
	v.typ = vt
}

func (v *cfgVal) checkType(vt cfgValType) {
	if v.typ != vt {
		panic("relisp: can't retrieve `" + vt.String() + "` from `" + v.typ.String() + "` variable")
	}
}

func (c *Config) SetBool(path string, v bool) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValType_Bool)
	(*c)[path].asBool = v
}

func (c *Config) SetInt(path string, v int) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValType_Int)
	(*c)[path].asInt = v
}

func (c *Config) SetString(path string, v string) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValType_String)
	(*c)[path].asString = v
}

func (c *Config) GetBool(path string) bool {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_Bool)
		return val.asBool
	}
	panic("relisp: bool setting `" + path + "` does not exist")
}

func (c *Config) GetInt(path string) int {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_Int)
		return val.asInt
	}
	panic("relisp: int setting `" + path + "` does not exist")
}

func (c *Config) GetString(path string) string {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_String)
		return val.asString
	}
	panic("relisp: string setting `" + path + "` does not exist")
}
