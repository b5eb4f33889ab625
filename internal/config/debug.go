package config

import "os"

func IsDebug() bool {
	return os.Getenv("ECHOVOICE_DEBUG") == "1"
}
