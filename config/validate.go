package config

import (
	"errors"
	"fmt"
)

// 错误信息中的字段名
const (
	FieldPreset          = "Preset"
	FieldColorMode       = "Color mode"
	FieldHierarchical    = "Hierarchical"
	FieldMode            = "Curve fitting mode"
	FieldFilterSpeckle   = "Filter speckle"
	FieldColorPrecision  = "Color precision"
	FieldGradientStep    = "Gradient step"
	FieldCornerThreshold = "Corner threshold"
	FieldSegmentLength   = "Segment length"
	FieldSpliceThreshold = "Splice threshold"
	FieldMaxIterations   = "Max iterations"
)

// ValidationError 参数校验失败
type ValidationError struct {
	Field  string
	Value  any
	Reason string
	// Range 数值越界时的合法区间, 例如 "[0,16]"
	Range string
}

func (e *ValidationError) Error() string {
	if e.Range != "" {
		return fmt.Sprintf("Out of Range Error: %s is invalid at %v. It must be within %s.", e.Field, e.Value, e.Range)
	}
	return fmt.Sprintf("Parser Error: %s is invalid: %v (%s).", e.Field, e.Value, e.Reason)
}

// IsValidationError err 是否包含 ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func checkInt(field string, v, lo, hi int) error {
	if v < lo || v > hi {
		return &ValidationError{Field: field, Value: v, Range: fmt.Sprintf("[%d,%d]", lo, hi)}
	}
	return nil
}

// Validate 检查每个字段的取值范围. 只在这里拒绝参数, Derive 假定配置已校验.
func (c UserConfig) Validate() error {
	if c.ColorMode != ColorModeColor && c.ColorMode != ColorModeBinary {
		return &ValidationError{Field: FieldColorMode, Value: c.ColorMode, Reason: "unknown value"}
	}
	if c.Hierarchical != Stacked && c.Hierarchical != Cutout {
		return &ValidationError{Field: FieldHierarchical, Value: c.Hierarchical, Reason: "unknown value"}
	}
	if !c.Mode.Valid() {
		return &ValidationError{Field: FieldMode, Value: c.Mode, Reason: "unknown value"}
	}
	if err := checkInt(FieldFilterSpeckle, c.FilterSpeckle, 0, 16); err != nil {
		return err
	}
	if err := checkInt(FieldColorPrecision, c.ColorPrecision, 1, 8); err != nil {
		return err
	}
	if err := checkInt(FieldGradientStep, c.LayerDifference, 0, 255); err != nil {
		return err
	}
	if err := checkInt(FieldCornerThreshold, c.CornerThreshold, 0, 180); err != nil {
		return err
	}
	// NaN 两个比较都不成立, 因此检查合法区间
	if !(c.LengthThreshold >= 3.5 && c.LengthThreshold <= 10.0) {
		return &ValidationError{Field: FieldSegmentLength, Value: c.LengthThreshold, Range: "[3.5,10]"}
	}
	if err := checkInt(FieldSpliceThreshold, c.SpliceThreshold, 0, 180); err != nil {
		return err
	}
	if c.MaxIterations < 0 {
		return &ValidationError{Field: FieldMaxIterations, Value: c.MaxIterations, Reason: "must not be negative"}
	}
	return nil
}
