package pkg

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var jsonNull = []byte("null")

// FlexInt is an optional integer JSON field that also accepts numeric
// strings, as sent by HTML form inputs. Null and blank strings leave it unset.
type FlexInt struct {
	Value int
	Valid bool
}

func NewFlexInt(v int) FlexInt {
	return FlexInt{Value: v, Valid: true}
}

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	*f = FlexInt{}
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, jsonNull) {
		return nil
	}

	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			return nil
		}
	}

	if v, err := strconv.Atoi(raw); err == nil {
		f.Value, f.Valid = v, true
		return nil
	}

	fv, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(fv, 0) || fv != math.Trunc(fv) {
		return fmt.Errorf("expected an integer, got %s", b)
	}
	f.Value, f.Valid = int(fv), true
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return jsonNull, nil
	}
	return []byte(strconv.Itoa(f.Value)), nil
}

func (f FlexInt) Ptr() *int {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// FlexDecimal is an optional decimal JSON field accepting numbers or strings
// with either '.' or ',' as the decimal separator. It keeps the normalised
// text form so values round-trip without float formatting noise.
type FlexDecimal struct {
	Text  string
	Valid bool
}

func NewFlexDecimal(s string) (FlexDecimal, error) {
	var d FlexDecimal
	if err := d.parse(s); err != nil {
		return FlexDecimal{}, err
	}
	return d, nil
}

func (d *FlexDecimal) UnmarshalJSON(b []byte) error {
	*d = FlexDecimal{}
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, jsonNull) {
		return nil
	}

	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
	}
	return d.parse(raw)
}

func (d *FlexDecimal) parse(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*d = FlexDecimal{}
		return nil
	}

	fv, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil || math.IsInf(fv, 0) || math.IsNaN(fv) {
		return fmt.Errorf("expected a number, got %q", raw)
	}

	d.Text = strconv.FormatFloat(fv, 'f', -1, 64)
	d.Valid = true
	return nil
}

func (d FlexDecimal) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return jsonNull, nil
	}
	return json.Marshal(d.Text)
}

func (d FlexDecimal) Ptr() *string {
	if !d.Valid {
		return nil
	}
	v := d.Text
	return &v
}
