package types_test

import (
	"testing"

	"github.com/c99js/c99js/internal/types"
	"github.com/stretchr/testify/require"
)

func TestStructLayout(t *testing.T) {
	// struct { char a; int b; char c; } -- classic padding case.
	s := types.NewStruct("S")
	types.AddMember(s, "a", types.TyChar, -1)
	types.AddMember(s, "b", types.TyInt, -1)
	types.AddMember(s, "c", types.TyChar, -1)
	types.FinishLayout(s)

	require.Equal(t, 4, s.Align)
	require.Equal(t, 0, s.Members.Offset)
	require.Equal(t, 4, s.Members.Next.Offset)
	require.Equal(t, 8, s.Members.Next.Next.Offset)
	require.Equal(t, 12, s.Size, "size must round up to the struct's own alignment")
}

func TestUnionLayout(t *testing.T) {
	u := types.NewUnion("U")
	types.AddMember(u, "i", types.TyInt, -1)
	types.AddMember(u, "c", types.TyChar, -1)
	types.AddMember(u, "d", types.TyDouble, -1)
	types.FinishLayout(u)

	require.Equal(t, 8, u.Align)
	require.Equal(t, 8, u.Size, "union size is the max member size rounded to max alignment")
	for m := u.Members; m != nil; m = m.Next {
		require.Equal(t, 0, m.Offset)
	}
}

func TestFlattenAnonymous(t *testing.T) {
	inner := types.NewStruct("")
	types.AddMember(inner, "x", types.TyInt, -1)
	types.AddMember(inner, "y", types.TyInt, -1)
	types.FinishLayout(inner)

	outer := types.NewStruct("Outer")
	anon := types.AddMember(outer, "", inner, -1)
	types.FlattenAnonymous(outer, anon)
	types.FinishLayout(outer)

	found := types.FindMember(outer, "y")
	require.NotNil(t, found)
	require.Equal(t, 4, found.Offset)
}

func TestUsualArithConversions(t *testing.T) {
	require.Equal(t, types.TyDouble, types.UsualArith(types.TyFloat, types.TyDouble))
	require.Equal(t, types.TyFloat, types.UsualArith(types.TyFloat, types.TyInt))
	require.Equal(t, types.TyLong, types.UsualArith(types.TyLong, types.TyInt))

	result := types.UsualArith(types.TyUInt, types.TyInt)
	require.True(t, result.IsUnsigned, "int vs unsigned int of equal rank converts to unsigned")
}

func TestIntPromotion(t *testing.T) {
	require.Equal(t, types.TyInt, types.IntPromote(types.TyChar))
	require.Equal(t, types.TyInt, types.IntPromote(types.TyShort))
	require.Equal(t, types.TyLong, types.IntPromote(types.TyLong))
}

func TestIsCompatiblePointers(t *testing.T) {
	p1 := types.NewPtr(types.TyInt)
	p2 := types.NewPtr(types.TyInt)
	require.True(t, types.IsCompatible(p1, p2))

	p3 := types.NewPtr(types.TyChar)
	require.False(t, types.IsCompatible(p1, p3))
}
