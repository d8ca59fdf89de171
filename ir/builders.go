// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

import "strconv"

// NewSymbol returns a reference to v.
func NewSymbol(v *Variable) *Symbol {
	return &Symbol{Var: v}
}

// NewConstant returns a constant of type t. values holds one entry per
// component.
func NewConstant(t *Type, values ...ConstValue) *Constant {
	return &Constant{Typ: t, Values: values}
}

// NewUnary returns op applied to operand.
func NewUnary(op Op, operand Expr) *Unary {
	return &Unary{Op: op, Operand: operand, typ: ResolveUnary(op, operand.Type())}
}

// NewBinary returns left op right. Field selection must use NewFieldAccess.
func NewBinary(op Op, left, right Expr) *Binary {
	Assert(op != OpIndexDirectStruct && op != OpIndexDirectInterfaceBlock, "use NewFieldAccess for %s", op)
	return &Binary{Op: op, Left: left, Right: right, typ: ResolveBinary(op, left.Type(), right.Type())}
}

// NewAssign returns left = right.
func NewAssign(left, right Expr) *Binary {
	return NewBinary(OpAssign, left, right)
}

// NewTernary returns cond ? t : f.
func NewTernary(cond, t, f Expr) *Ternary {
	return &Ternary{Cond: cond, True: t, False: f}
}

// NewIndexDirect returns base[index] with a constant index.
func NewIndexDirect(base Expr, index int) *Binary {
	return NewBinary(OpIndexDirect, base, CreateIndexNode(index))
}

// NewIndexIndirect returns base[index].
func NewIndexIndirect(base, index Expr) *Binary {
	return NewBinary(OpIndexIndirect, base, index)
}

// NewFieldAccess selects field index of a struct or interface block value.
func NewFieldAccess(base Expr, index int) *Binary {
	op := OpIndexDirectStruct
	if base.Type().IsInterfaceBlock() {
		op = OpIndexDirectInterfaceBlock
	}
	return &Binary{Op: op, Left: base, Right: CreateIndexNode(index), typ: ResolveField(base.Type(), index)}
}

// NewConstructor returns t(args...).
func NewConstructor(t *Type, args ...Expr) *Aggregate {
	return &Aggregate{Op: OpConstruct, Args: args, typ: temporary(t)}
}

// NewBlock returns a statement list.
func NewBlock(stmts ...Node) *Block {
	return &Block{Stmts: stmts}
}

// NewDeclaration declares the given declarators.
func NewDeclaration(declarators ...Expr) *Declaration {
	return &Declaration{Declarators: declarators}
}

// NewIfElse returns an if statement; els may be nil.
func NewIfElse(cond Expr, then, els *Block) *IfElse {
	return &IfElse{Cond: cond, Then: then, Else: els}
}

// NewSwitch returns a switch over init.
func NewSwitch(init Expr, body *Block) *Switch {
	return &Switch{Init: init, Body: body}
}

// NewCase returns a case label; a nil cond is the default label.
func NewCase(cond Expr) *Case {
	return &Case{Cond: cond}
}

// NewBranch returns a jump statement.
func NewBranch(op BranchOp, value Expr) *Branch {
	return &Branch{Op: op, Value: value}
}

// NewLoop returns a loop statement.
func NewLoop(kind LoopKind, init Node, cond, expr Expr, body *Block) *Loop {
	return &Loop{Kind: kind, Init: init, Cond: cond, Expr: expr, Body: body}
}

// NewFunctionPrototype returns a prototype of fn.
func NewFunctionPrototype(fn *Function) *FunctionPrototype {
	return &FunctionPrototype{Fn: fn}
}

// NewFunctionDefinition returns fn with its body.
func NewFunctionDefinition(fn *Function, body *Block) *FunctionDefinition {
	return &FunctionDefinition{Proto: NewFunctionPrototype(fn), Body: body}
}

// CreateIndexNode returns a highp int constant for indexing.
func CreateIndexNode(i int) *Constant {
	return NewConstant(StaticScalar(BasicInt, PrecisionHigh, QualConst), IntValue(int32(i)))
}

// CreateIntNode returns a highp int constant.
func CreateIntNode(i int32) *Constant {
	return NewConstant(StaticScalar(BasicInt, PrecisionHigh, QualConst), IntValue(i))
}

// CreateUIntNode returns a highp uint constant.
func CreateUIntNode(u uint32) *Constant {
	return NewConstant(StaticScalar(BasicUInt, PrecisionHigh, QualConst), UIntValue(u))
}

// CreateFloatNode returns a float constant with precision p.
func CreateFloatNode(f float32, p Precision) *Constant {
	return NewConstant(StaticScalar(BasicFloat, p, QualConst), FloatValue(f))
}

// CreateBoolNode returns a bool constant.
func CreateBoolNode(b bool) *Constant {
	return NewConstant(StaticScalar(BasicBool, PrecisionUndefined, QualConst), BoolValue(b))
}

// CreateZeroNode returns the zero value of t: a constant for scalars,
// vectors and matrices and a constructor for arrays and structs.
func CreateZeroNode(t *Type) Expr {
	switch {
	case t.IsArray():
		elem := t.ElementType()
		args := make([]Expr, t.OutermostArraySize())
		for i := range args {
			args[i] = CreateZeroNode(elem)
		}
		return NewConstructor(t, args...)
	case t.IsStructure():
		args := make([]Expr, len(t.Struct.Fields))
		for i, f := range t.Struct.Fields {
			args[i] = CreateZeroNode(f.Type)
		}
		return NewConstructor(t, args...)
	}
	Assert(!t.IsOpaque() && !t.IsInterfaceBlock() && t.Basic != BasicVoid, "no zero value for %s", t)
	values := make([]ConstValue, t.ComponentCount())
	for i := range values {
		values[i] = ConstValue{Basic: t.Basic}
	}
	c := t.WithQualifier(QualConst)
	c.Layout = NoLayout()
	return NewConstant(c, values...)
}

// CreateTempVariable declares an internal temporary of type t. t must
// carry a precision when one applies.
func CreateTempVariable(st *SymbolTable, t *Type) *Variable {
	v := st.DeclareInternal("", temporary(t))
	v.Name = "_temp" + strconv.Itoa(int(v.ID))
	return v
}

// CreateTempDeclaration returns "T v;".
func CreateTempDeclaration(v *Variable) *Declaration {
	return NewDeclaration(NewSymbol(v))
}

// CreateTempInitDeclaration returns "T v = init;".
func CreateTempInitDeclaration(v *Variable, init Expr) *Declaration {
	return NewDeclaration(&Binary{Op: OpInitialize, Left: NewSymbol(v), Right: init, typ: temporary(v.Type)})
}

// CreateTempAssignment returns "v = rhs".
func CreateTempAssignment(v *Variable, rhs Expr) *Binary {
	return NewAssign(NewSymbol(v), rhs)
}

// CreateInternalFunction declares an internal function with a name that
// does not clash with existing globals or functions.
func CreateInternalFunction(st *SymbolTable, name string, ret *Type, params ...*Variable) *Function {
	return st.DeclareFunction(st.UniqueName(name), SymbolInternal, ret, params...)
}

// CreateParam declares a parameter of an internal function.
func CreateParam(st *SymbolTable, name string, t *Type) *Variable {
	c := t.Clone()
	if !c.Qualifier.IsParam() {
		c.Qualifier = QualParamIn
	}
	return st.DeclareInternal(name, c)
}

// CreateCall returns a call of fn.
func CreateCall(fn *Function, args ...Expr) *Aggregate {
	return &Aggregate{Op: OpCallFunctionInAST, Fn: fn, Args: args, typ: temporary(fn.ReturnType)}
}

// CreateBuiltInCall returns a call of a built-in function. Calls with one
// argument to the functions for which op.IsUnaryBuiltIn holds are Unary
// nodes; all others are Aggregate nodes.
func CreateBuiltInCall(op Op, args ...Expr) Expr {
	Assert(op.IsBuiltInFunction(), "%s is not a built-in function", op)
	if len(args) == 1 && op.IsUnaryBuiltIn() {
		return NewUnary(op, args[0])
	}
	types := make([]*Type, len(args))
	for i, a := range args {
		types[i] = a.Type()
	}
	return &Aggregate{Op: op, Args: args, typ: ResolveBuiltIn(op, types)}
}

// CreateSwizzle returns operand.xyzw selecting offsets.
func CreateSwizzle(operand Expr, offsets ...int) *Swizzle {
	for _, o := range offsets {
		Assert(o >= 0 && o < 4, "swizzle offset %d out of range", o)
	}
	return &Swizzle{Operand: operand, Offsets: offsets, typ: ResolveSwizzle(operand.Type(), len(offsets))}
}

// FindMain returns the definition of main in root, or nil.
func FindMain(root *Block) *FunctionDefinition {
	for _, n := range root.Stmts {
		if fd, ok := n.(*FunctionDefinition); ok && fd.Function().IsMain() {
			return fd
		}
	}
	return nil
}

// ContainsReturn reports whether a return statement appears under n.
func ContainsReturn(n Node) bool {
	found := false
	w := &Walker{
		Branch: func(_ *Walker, _ Visit, b *Branch) bool {
			if b.Op == BranchReturn {
				found = true
			}
			return !found
		},
	}
	w.Walk(n)
	return found
}
