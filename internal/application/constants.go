package application

import (
	"context"
	"slices"

	"github.com/ericfisherdev/passenger/internal/domain/model"
)

// DeclareConstant adds a new constant. Its key must not exist yet.
func (v *Vault) DeclareConstant(ctx context.Context, pair model.ConstantPair) error {
	ctx = v.opContext(ctx, "declare")

	if err := v.requireRegistered(); err != nil {
		return err
	}
	if err := pair.Validate(); err != nil {
		return err
	}
	if model.FindConstant(v.doc.Constants, pair.Key) >= 0 {
		return constantExists(pair.Key)
	}

	err := v.mutate(ctx, func(doc *model.VaultDocument) error {
		doc.Constants = append(doc.Constants, pair)
		return nil
	})
	if err != nil {
		return err
	}

	v.logger.InfoContext(ctx, "constant declared", "key", pair.Key)
	return nil
}

// ModifyConstant replaces the constant stored under key. The replacement may
// carry a new key as long as no other constant uses it. Identities that
// referenced the old key are left as they are.
func (v *Vault) ModifyConstant(ctx context.Context, key string, pair model.ConstantPair) error {
	ctx = v.opContext(ctx, "modify")

	if err := v.requireRegistered(); err != nil {
		return err
	}
	if err := pair.Validate(); err != nil {
		return err
	}
	i := model.FindConstant(v.doc.Constants, key)
	if i < 0 {
		return constantNotFound(key)
	}
	if pair.Key != key && model.FindConstant(v.doc.Constants, pair.Key) >= 0 {
		return constantExists(pair.Key)
	}

	err := v.mutate(ctx, func(doc *model.VaultDocument) error {
		doc.Constants[i] = pair
		return nil
	})
	if err != nil {
		return err
	}

	v.logger.InfoContext(ctx, "constant modified", "key", key, "new_key", pair.Key)
	return nil
}

// RememberConstant returns the constant stored under key.
func (v *Vault) RememberConstant(key string) (model.ConstantPair, error) {
	if err := v.requireRegistered(); err != nil {
		return model.ConstantPair{}, err
	}
	i := model.FindConstant(v.doc.Constants, key)
	if i < 0 {
		return model.ConstantPair{}, constantNotFound(key)
	}
	return v.doc.Constants[i], nil
}

// ForgetConstant removes the constant stored under key.
func (v *Vault) ForgetConstant(ctx context.Context, key string) error {
	ctx = v.opContext(ctx, "forget")

	if err := v.requireRegistered(); err != nil {
		return err
	}
	i := model.FindConstant(v.doc.Constants, key)
	if i < 0 {
		return constantNotFound(key)
	}

	err := v.mutate(ctx, func(doc *model.VaultDocument) error {
		doc.Constants = slices.Delete(doc.Constants, i, i+1)
		return nil
	})
	if err != nil {
		return err
	}

	v.logger.InfoContext(ctx, "constant forgotten", "key", key)
	return nil
}

// Constants returns a copy of every declared constant.
func (v *Vault) Constants() ([]model.ConstantPair, error) {
	if err := v.requireRegistered(); err != nil {
		return nil, err
	}
	out := slices.Clone(v.doc.Constants)
	if out == nil {
		out = []model.ConstantPair{}
	}
	return out, nil
}

func constantExists(key string) error {
	return model.NewErrorf(model.KindConflict, "constant %q already exists", key)
}

func constantNotFound(key string) error {
	return model.NewErrorf(model.KindNotFound, "no constant with key %q", key)
}
