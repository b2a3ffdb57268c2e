package adapter

import (
	"context"
	"go/token"
	"testing"
)

func TestLocalGoFileAdapter_Parse(t *testing.T) {
	adapter := NewLocalGoFileAdapter()
	fset := token.NewFileSet()

	src := []byte("package view\n\nvar scheme = 1\n")

	file, err := adapter.Parse(context.Background(), fset, "view.go", src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if file.Name.Name != "view" {
		t.Fatalf("Parse() package = %s, want view", file.Name.Name)
	}
}

func TestLocalGoFileAdapter_Parse_InvalidSource(t *testing.T) {
	adapter := NewLocalGoFileAdapter()
	fset := token.NewFileSet()

	if _, err := adapter.Parse(context.Background(), fset, "broken.go", []byte("package foo\n func")); err == nil {
		t.Fatalf("Parse() expected error for invalid source")
	}
}

func TestLocalGoFileAdapter_Parse_ContextCancellation(t *testing.T) {
	adapter := NewLocalGoFileAdapter()
	fset := token.NewFileSet()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := adapter.Parse(ctx, fset, "example.go", []byte("package main\n func main() {}")); err == nil {
		t.Fatalf("Parse() expected error due to context cancellation")
	}
}
