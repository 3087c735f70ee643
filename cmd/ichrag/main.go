package main

import "github.com/MaTTalv001/ICH-RAG/internal/cli"

func main() {
	cli.Execute()
}
