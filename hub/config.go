package hub

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tim-hardcastle/Minnow/database"
	"github.com/tim-hardcastle/Minnow/object"
	"github.com/tim-hardcastle/Minnow/sysvars"
	"github.com/tim-hardcastle/Minnow/text"
)

const configFilepath = "minnow.yaml"

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type Config struct {
	Database DatabaseConfig    `yaml:"database,omitempty"`
	Sysvars  map[string]string `yaml:"sysvars,omitempty"`
}

// loadConfig reads minnow.yaml from the working directory, if there is one,
// and applies it: system variables first, then the database connection.
func (hub *Hub) loadConfig() {
	dat, err := os.ReadFile(configFilepath)
	if err != nil {
		return // No config file is fine, the defaults stand.
	}
	config := &Config{}
	if err := yaml.Unmarshal(dat, config); err != nil {
		hub.WriteString(text.ERROR + "the hub can't make sense of " + text.Emph(configFilepath) +
			": " + err.Error() + "\n")
		return
	}
	hub.config = config
	for name, raw := range config.Sysvars {
		sysVar, ok := sysvars.Sysvars[name]
		if !ok {
			continue
		}
		value := parseSysvarValue(raw)
		if sysVar.Validator(value) != "" {
			continue
		}
		hub.sysVars[name] = value
		if name == "$color" {
			text.UseColor(value == object.TRUE)
		}
	}
	if config.Database.Driver == "" {
		return
	}
	db, err := database.GetSqlDB(config.Database.Driver, config.Database.Host,
		config.Database.Port, config.Database.Name, config.Database.User,
		config.Database.Password)
	if err != nil {
		hub.WriteString(text.ERROR + "the hub can't connect to its database: " + err.Error() + "\n")
		return
	}
	hub.db = db
}

// saveConfig writes the hub's state back to minnow.yaml, so that the
// database and the system variables survive a restart.
func (hub *Hub) saveConfig() {
	hub.config.Sysvars = map[string]string{}
	for name, value := range hub.sysVars {
		hub.config.Sysvars[name] = value.Inspect()
	}
	dat, err := yaml.Marshal(hub.config)
	if err != nil {
		return
	}
	os.WriteFile(configFilepath, dat, 0644)
}
