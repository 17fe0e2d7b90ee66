// Package config loads the TOML configuration file cmd/fiskread accepts
// via --config, in the idiom of holocm/holo-build's PackageDefinition:
// a nice exported struct whose field names double as the TOML parser's
// error-message vocabulary.
package config

import (
	"github.com/BurntSushi/toml"

	"github.com/czajorlukasz/fiskread/fsperr"
)

// PrinterSection only needs a nice exported name for the TOML parser to
// produce meaningful error messages on malformed input.
type PrinterSection struct {
	Address     string `toml:"address"`
	Port        int    `toml:"port"`
	LocationID  string `toml:"location_id"`
	StartDir    string `toml:"start_dir"`
	StartIndex  int    `toml:"start_index"`
	PageSize    int    `toml:"page_size"`
	StorageRoot string `toml:"storage_root"`
}

// File is the root of a fiskread TOML config file.
type File struct {
	Printer PrinterSection `toml:"printer"`
}

// Defaults returns a File populated with cmd/fiskread's built-in
// defaults, the bottom of the "defaults < TOML file < CLI flags"
// precedence chain.
func Defaults() File {
	return File{Printer: PrinterSection{
		Port:        2121,
		StartDir:    "EJ0",
		PageSize:    4096,
		StorageRoot: "./data",
	}}
}

// Load reads and decodes a TOML file into base, overriding any field the
// file sets. Fields absent from the file keep base's value, since
// toml.Decode only writes keys present in the document.
func Load(path string, base File) (File, error) {
	if _, err := toml.DecodeFile(path, &base); err != nil {
		return File{}, fsperr.New(fsperr.KindConfig, "config.Load", path, err)
	}
	return base, nil
}
