package content

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

func init() {
	register([]string{"text", "textbox_large", "number", "pricing"}, newText)
	register([]string{"boolean"}, newBoolean)
	register([]string{"radios"}, newRadios)
	register([]string{"checkboxes"}, newCheckboxes)
	register([]string{"list"}, newList)
	register([]string{"boolean_list"}, newBooleanList)
	register([]string{"dynamic_list"}, newDynamicList)
	register([]string{"multiquestion"}, newMulti)
}

type Text struct {
	base
	Prefix string
}

func newText(def *questionDef, ctx Context) Question {
	return &Text{base: newBase(def, ctx), Prefix: def.Prefix}
}

func (q *Text) GetData(form url.Values) map[string]any {
	v := strings.TrimSpace(form.Get(q.id))
	if v == "" {
		return map[string]any{q.id: nil}
	}
	return map[string]any{q.id: v}
}

func (q *Text) UnformatData(data map[string]any) map[string]any {
	if s := stringValue(data[q.id]); s != "" {
		return map[string]any{q.id: s}
	}
	return map[string]any{}
}

func (q *Text) Answer(data map[string]any) Answer {
	s := stringValue(data[q.id])
	if s != "" && q.Prefix != "" {
		s = q.Prefix + s
	}
	return Answer{Value: s}
}

type Boolean struct {
	base
}

func newBoolean(def *questionDef, ctx Context) Question {
	return &Boolean{base: newBase(def, ctx)}
}

func (q *Boolean) GetData(form url.Values) map[string]any {
	return map[string]any{q.id: parseBool(form.Get(q.id))}
}

func (q *Boolean) UnformatData(data map[string]any) map[string]any {
	if b, ok := data[q.id].(bool); ok {
		return map[string]any{q.id: b}
	}
	return map[string]any{}
}

func (q *Boolean) Answer(data map[string]any) Answer {
	b, ok := data[q.id].(bool)
	if !ok {
		return Answer{}
	}
	return Answer{Value: yesNo(b)}
}

type Option struct {
	Label string
	Value string
}

type Radios struct {
	base
	Options []Option
}

func newRadios(def *questionDef, ctx Context) Question {
	return &Radios{base: newBase(def, ctx), Options: options(def)}
}

func (q *Radios) GetData(form url.Values) map[string]any {
	v := form.Get(q.id)
	if v == "" {
		return map[string]any{q.id: nil}
	}
	return map[string]any{q.id: v}
}

func (q *Radios) UnformatData(data map[string]any) map[string]any {
	if s, ok := data[q.id].(string); ok && s != "" {
		return map[string]any{q.id: s}
	}
	return map[string]any{}
}

func (q *Radios) Answer(data map[string]any) Answer {
	s, _ := data[q.id].(string)
	return Answer{Value: optionLabel(q.Options, s)}
}

type Checkboxes struct {
	base
	Options []Option
}

func newCheckboxes(def *questionDef, ctx Context) Question {
	return &Checkboxes{base: newBase(def, ctx), Options: options(def)}
}

func (q *Checkboxes) GetData(form url.Values) map[string]any {
	return map[string]any{q.id: nonEmpty(form[q.id])}
}

func (q *Checkboxes) UnformatData(data map[string]any) map[string]any {
	if values := stringList(data[q.id]); len(values) > 0 {
		return map[string]any{q.id: values}
	}
	return map[string]any{}
}

func (q *Checkboxes) Answer(data map[string]any) Answer {
	var labels []string
	for _, v := range stringList(data[q.id]) {
		labels = append(labels, optionLabel(q.Options, v))
	}
	return Answer{Values: labels}
}

// List is a free-text list, each entry submitted under the question id.
type List struct {
	base
}

func newList(def *questionDef, ctx Context) Question {
	return &List{base: newBase(def, ctx)}
}

func (q *List) GetData(form url.Values) map[string]any {
	return map[string]any{q.id: nonEmpty(form[q.id])}
}

func (q *List) UnformatData(data map[string]any) map[string]any {
	if values := stringList(data[q.id]); len(values) > 0 {
		return map[string]any{q.id: values}
	}
	return map[string]any{}
}

func (q *List) Answer(data map[string]any) Answer {
	return Answer{Values: stringList(data[q.id])}
}

// BooleanList asks yes or no against each of a list of statements, which come
// from the brief. Inputs are named "<id>-<index>".
type BooleanList struct {
	base
	Statements []string
}

func newBooleanList(def *questionDef, ctx Context) Question {
	return &BooleanList{base: newBase(def, ctx), Statements: stringList(ctx.Brief[def.ID])}
}

func (q *BooleanList) SetStatements(statements []string) {
	q.Statements = statements
}

func (q *BooleanList) Input(i int) string {
	return fmt.Sprintf("%s-%d", q.id, i)
}

func (q *BooleanList) GetData(form url.Values) map[string]any {
	values := make([]any, len(q.Statements))
	for i := range q.Statements {
		values[i] = parseBool(form.Get(q.Input(i)))
	}
	return map[string]any{q.id: values}
}

func (q *BooleanList) UnformatData(data map[string]any) map[string]any {
	result := map[string]any{}
	list, _ := data[q.id].([]any)
	for i, v := range list {
		if b, ok := v.(bool); ok {
			result[q.Input(i)] = b
		}
	}
	return result
}

func (q *BooleanList) Answer(data map[string]any) Answer {
	list, _ := data[q.id].([]any)
	var items []AnswerItem
	for i, statement := range q.Statements {
		item := AnswerItem{Label: statement}
		if i < len(list) {
			if b, ok := list[i].(bool); ok {
				item.Value = yesNo(b)
			}
		}
		items = append(items, item)
	}
	return Answer{Items: items}
}

type Field struct {
	ID       string
	Type     string
	Question string
}

// DynamicList repeats a group of fields once for each entry of a list on the
// brief, e.g. evidence for every essential requirement. Inputs are named
// "<field>-<index>".
type DynamicList struct {
	base
	Fields []Field
	Items  []string
}

func newDynamicList(def *questionDef, ctx Context) Question {
	q := &DynamicList{base: newBase(def, ctx)}
	for _, f := range def.Fields {
		q.Fields = append(q.Fields, Field{ID: f.ID, Type: f.Type, Question: execute(def.fieldLabels[f.ID], ctx)})
	}
	key := strings.TrimPrefix(def.DynamicField, "brief.")
	q.Items = stringList(ctx.Brief[key])
	return q
}

func (q *DynamicList) Input(field string, i int) string {
	return fmt.Sprintf("%s-%d", field, i)
}

func (q *DynamicList) GetData(form url.Values) map[string]any {
	items := make([]any, 0, len(q.Items))
	for i := range q.Items {
		item := map[string]any{}
		for _, f := range q.Fields {
			raw := strings.TrimSpace(form.Get(q.Input(f.ID, i)))
			switch f.Type {
			case "boolean":
				if b := parseBool(raw); b != nil {
					item[f.ID] = b
				}
			default:
				if raw != "" {
					item[f.ID] = raw
				}
			}
		}
		items = append(items, item)
	}
	return map[string]any{q.id: items}
}

func (q *DynamicList) UnformatData(data map[string]any) map[string]any {
	result := map[string]any{}
	list, _ := data[q.id].([]any)
	for i, raw := range list {
		item, _ := raw.(map[string]any)
		for _, f := range q.Fields {
			switch v := item[f.ID].(type) {
			case bool:
				result[q.Input(f.ID, i)] = v
			case string:
				if v != "" {
					result[q.Input(f.ID, i)] = v
				}
			}
		}
	}
	return result
}

// ErrorMessages understands both a single code for the whole list and the
// per-item form [{"field": ..., "index": ..., "error": ...}].
func (q *DynamicList) ErrorMessages(payload map[string]any) Errors {
	switch v := payload[q.id].(type) {
	case string:
		return Errors{{Input: q.id, Question: q.label, Message: q.message(v)}}
	case []any:
		var errs Errors
		for _, raw := range v {
			e, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			field, _ := e["field"].(string)
			index, _ := e["index"].(float64)
			code, _ := e["error"].(string)
			message, ok := q.messages[field+"."+code]
			if !ok {
				message = q.message(code)
			}
			label := q.label
			if index >= 0 && int(index) < len(q.Items) {
				label = q.Items[int(index)]
			}
			errs = append(errs, FieldError{Input: q.Input(field, int(index)), Question: label, Message: message})
		}
		return errs
	}
	return nil
}

func (q *DynamicList) Answer(data map[string]any) Answer {
	list, _ := data[q.id].([]any)
	var items []AnswerItem
	for i, label := range q.Items {
		item := AnswerItem{Label: label}
		if i < len(list) {
			fields, _ := list[i].(map[string]any)
			item.Value = q.itemValue(fields)
		}
		items = append(items, item)
	}
	return Answer{Items: items}
}

func (q *DynamicList) itemValue(fields map[string]any) string {
	var value string
	for _, f := range q.Fields {
		switch v := fields[f.ID].(type) {
		case bool:
			if !v {
				return yesNo(false)
			}
			value = yesNo(true)
		case string:
			if v != "" {
				value = v
			}
		}
	}
	return value
}

// Multi groups several questions on one page.
type Multi struct {
	base
	Questions []Question
}

func newMulti(def *questionDef, ctx Context) Question {
	q := &Multi{base: newBase(def, ctx)}
	for _, nested := range def.nested {
		if nested.applies(ctx) {
			q.Questions = append(q.Questions, newQuestion(nested, ctx))
		}
	}
	return q
}

func (q *Multi) GetData(form url.Values) map[string]any {
	result := map[string]any{}
	for _, nested := range q.Questions {
		for k, v := range nested.GetData(form) {
			result[k] = v
		}
	}
	return result
}

func (q *Multi) UnformatData(data map[string]any) map[string]any {
	result := map[string]any{}
	for _, nested := range q.Questions {
		for k, v := range nested.UnformatData(data) {
			result[k] = v
		}
	}
	return result
}

func (q *Multi) ErrorMessages(payload map[string]any) Errors {
	var errs Errors
	for _, nested := range q.Questions {
		errs = append(errs, nested.ErrorMessages(payload)...)
	}
	return errs
}

func (q *Multi) Answer(data map[string]any) Answer {
	var items []AnswerItem
	for _, nested := range q.Questions {
		a := nested.Answer(data)
		value := a.Value
		if value == "" {
			value = strings.Join(a.Values, ", ")
		}
		items = append(items, AnswerItem{Label: nested.Label(), Value: value})
	}
	return Answer{Items: items}
}

func options(def *questionDef) []Option {
	opts := make([]Option, 0, len(def.Options))
	for _, o := range def.Options {
		value := o.Value
		if value == "" {
			value = o.Label
		}
		opts = append(opts, Option{Label: o.Label, Value: value})
	}
	return opts
}

func optionLabel(opts []Option, value string) string {
	for _, o := range opts {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

func parseBool(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

func stringList(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
