package model

import (
	"slices"
	"strings"
)

// ConstantPrefix marks an identity as a reference to a declared constant.
const ConstantPrefix = "_$"

// ConstantPair is a named value that identity fields can reference as _$key.
type ConstantPair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Validate checks that both key and value are present.
func (c ConstantPair) Validate() error {
	if c.Key == "" {
		return MissingField("key")
	}
	if c.Value == "" {
		return MissingField("value")
	}
	return nil
}

// Reference returns the _$key token that resolves to this constant.
func (c ConstantPair) Reference() string {
	return ConstantPrefix + c.Key
}

// FindConstant returns the index of key in constants, or -1.
func FindConstant(constants []ConstantPair, key string) int {
	return slices.IndexFunc(constants, func(c ConstantPair) bool { return c.Key == key })
}

// ResolveConstant substitutes value when it is exactly _$key for a declared
// key. Anything else, including a token embedded in a longer string, is
// returned unchanged.
func ResolveConstant(value string, constants []ConstantPair) string {
	key, ok := strings.CutPrefix(value, ConstantPrefix)
	if !ok {
		return value
	}
	if i := FindConstant(constants, key); i >= 0 {
		return constants[i].Value
	}
	return value
}
