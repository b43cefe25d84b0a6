package text_test

import (
	"fmt"

	"github.com/walteh/gitsr/pkg/expression"
	"github.com/walteh/gitsr/pkg/text"
)

func ExampleTransform() {
	exprs, err := expression.Compile([]string{
		"World", "Universe",
		"Hello", "Hi",
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	result, err := text.Transform("Hello World!\n", exprs, expression.StageContent, text.ModeFix)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Modified: %s", result.Modified)
	for _, m := range result.Matches {
		fmt.Printf("expr %d line %d: %q -> %q\n", m.Expression, m.Line, m.Old, m.New)
	}

	// Output:
	// Modified: Hi Universe!
	// expr 0 line 1: "World" -> "Universe"
	// expr 1 line 1: "Hello" -> "Hi"
}

func ExampleSubstitute() {
	exprs, err := expression.Compile([]string{`([a-z]+)_([a-z]+)\.go`, `\G{snake_to_pascal(m(1) + '_' + m(2))}.go`})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	out, err := text.Substitute("pkg/user_store.go", exprs, expression.StagePath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println(out)

	// Output:
	// pkg/UserStore.go
}
