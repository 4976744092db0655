/*
Copyright © 2026 SHEKHAR TATA
*/
package main

import "github.com/shekhartata/mongodbExplainLinter/cmd"

func main() {
	cmd.Execute()
}
