package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		if log != nil {
			log.Critical("app: command failed", "err", err)
		}
		os.Exit(1)
	}
}
