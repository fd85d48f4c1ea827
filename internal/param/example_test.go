package param_test

import (
	"fmt"

	"github.com/nvandessel/paramtree/internal/param"
	"github.com/nvandessel/paramtree/internal/units"
)

// ExampleNew builds a small tree and reads stored and usable values.
func ExampleNew() {
	reg := units.Standard()

	length := param.MustNew(param.Args{
		"id":          "length",
		"value":       250.0,
		"units":       "cm",
		"transformer": param.ToSI(reg, "cm"),
	})
	scheme := param.MustNew(param.Args{
		"id": "scheme",
		"children": []param.Parameter{
			param.MustNew(param.Args{"id": "upwind", "value": "UW"}),
			param.MustNew(param.Args{"id": "central", "value": "CD"}),
		},
		"selection": "central",
	})
	model := param.MustNew(param.Args{
		"id":       "model",
		"children": []param.Parameter{length, scheme},
	})

	fmt.Println(model.Kind(), scheme.Kind())
	fmt.Println(model.Value().(param.Record).Map())
	usable, _ := model.Transform()
	fmt.Println(usable.(param.Record).Map())

	// Output:
	// container options
	// map[length:250 scheme:CD]
	// map[length:2.5 scheme:CD]
}

// ExamplePerturb upgrades a leaf to a perturbed parameter inside a container.
func ExamplePerturb() {
	model := param.MustNew(param.Args{
		"id": "model",
		"children": []param.Parameter{
			param.MustNew(param.Args{"id": "k", "value": 4.0}),
		},
	})

	if _, err := param.Perturb(model, map[string]any{"k": 0.1}); err != nil {
		fmt.Println(err)
		return
	}
	k, _ := model.(param.Composite).Get("k")
	fmt.Println(k.Kind(), k.Value(), k.(*param.Perturbed).Perturbation())

	// Output:
	// perturbed 4 0.1
}
