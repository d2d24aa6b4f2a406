package registry

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// hclRegistryFile is the top-level structure of an HCL registration file.
type hclRegistryFile struct {
	Categories []*hclCategory `hcl:"category,block"`
	Adapters   []*hclAdapter  `hcl:"adapter,block"`
	Widgets    []*hclWidget   `hcl:"widget,block"`
}

type hclCategory struct {
	Name        string `hcl:"name,label"`
	Description string `hcl:"description,optional"`
	Background  string `hcl:"background,optional"`
	Priority    int    `hcl:"priority,optional"`
	Hidden      bool   `hcl:"hidden,optional"`
}

type hclAdapter struct {
	From string `hcl:"from"`
	To   string `hcl:"to"`
}

type hclWidget struct {
	QualifiedName string        `hcl:"qualified_name,label"`
	Name          string        `hcl:"name,optional"`
	Category      string        `hcl:"category"`
	Description   string        `hcl:"description,optional"`
	Keywords      []string      `hcl:"keywords,optional"`
	Priority      int           `hcl:"priority,optional"`
	Inputs        []*hclChannel `hcl:"input,block"`
	Outputs       []*hclChannel `hcl:"output,block"`
	Defaults      *cty.Value    `hcl:"defaults,optional"`
}

type hclChannel struct {
	Name    string   `hcl:"name,label"`
	Type    string   `hcl:"type"`
	Handler string   `hcl:"handler,optional"`
	Flags   []string `hcl:"flags,optional"`
}

// LoadHCL parses one HCL registration file into b.
//
//	widget "orchard.math.Add" {
//	  category = "Math"
//	  input "left" { type = "int" }
//	  output "result" { type = "int" }
//	  defaults = { precision = 2 }
//	}
func LoadHCL(content []byte, filename string, b *Builder) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(content, filename)
	if diags.HasErrors() {
		return fmt.Errorf("parse hcl: %w", diags)
	}

	var parsed hclRegistryFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return fmt.Errorf("decode hcl: %w", diags)
	}

	for _, c := range parsed.Categories {
		b.AddCategory(NewCategory(c.Name, c.Description, c.Background, c.Priority, c.Hidden))
	}
	for _, a := range parsed.Adapters {
		b.Adapter(a.From, a.To)
	}
	for _, w := range parsed.Widgets {
		def := WidgetDef{
			QualifiedName: w.QualifiedName,
			Name:          w.Name,
			Category:      w.Category,
			Description:   w.Description,
			Keywords:      w.Keywords,
			Priority:      w.Priority,
		}
		for _, in := range w.Inputs {
			def.Inputs = append(def.Inputs, ChannelDef{Name: in.Name, Type: in.Type, Handler: in.Handler, Flags: in.Flags})
		}
		for _, out := range w.Outputs {
			def.Outputs = append(def.Outputs, ChannelDef{Name: out.Name, Type: out.Type, Flags: out.Flags})
		}
		if w.Defaults != nil {
			native, err := ctyToNative(*w.Defaults)
			if err != nil {
				return fmt.Errorf("widget %s defaults: %w", w.QualifiedName, err)
			}
			m, ok := native.(map[string]any)
			if !ok {
				return fmt.Errorf("%w: widget %s: defaults must be an object", ErrInvalidDescription, w.QualifiedName)
			}
			def.Defaults = m
		}

		wb, err := widgetFromDef(def)
		if err != nil {
			return fmt.Errorf("widget %s: %w", w.QualifiedName, err)
		}
		b.AddWidgetBuilder(wb)
	}
	return nil
}

// ctyToNative converts a cty value into plain Go values: string, float64,
// bool, []any and map[string]any. Null and unknown values become nil.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil
	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("convert number: %w", err)
		}
		return f, nil
	case ty == cty.Bool:
		return v.True(), nil
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, el := it.Element()
			native, err := ctyToNative(el)
			if err != nil {
				return nil, err
			}
			out = append(out, native)
		}
		return out, nil
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any)
		for it := v.ElementIterator(); it.Next(); {
			key, el := it.Element()
			native, err := ctyToNative(el)
			if err != nil {
				return nil, fmt.Errorf("in attribute %q: %w", key.AsString(), err)
			}
			out[key.AsString()] = native
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}
