package vm

import "github.com/lookbusy1344/sparc-edu-toolchain/isa"

// evaluateCondition implements the 16 Bicc truth tables over (N,Z,V,C),
// per spec.md section 4.10.
func evaluateCondition(cond uint32, f CCR) bool {
	switch cond {
	case isa.CondA:
		return true
	case isa.CondN:
		return false
	case isa.CondE:
		return f.Z
	case isa.CondNE:
		return !f.Z
	case isa.CondG:
		return !(f.Z || (f.N != f.V))
	case isa.CondGE:
		return !(f.N != f.V)
	case isa.CondL:
		return f.N != f.V
	case isa.CondLE:
		return f.Z || (f.N != f.V)
	case isa.CondGU:
		return !(f.C || f.Z)
	case isa.CondLEU:
		return f.C || f.Z
	case isa.CondCC:
		return !f.C
	case isa.CondCS:
		return f.C
	case isa.CondPOS:
		return !f.N
	case isa.CondNEG:
		return f.N
	case isa.CondVC:
		return !f.V
	case isa.CondVS:
		return f.V
	default:
		return false
	}
}

func (v *VM) execBranch(cond uint32, disp int32) {
	if evaluateCondition(cond, v.CPU.CCR) {
		v.nextBranchDisp = disp
	}
}

func (v *VM) execCall(disp int32) {
	v.CPU.SetRegister(15, v.CPU.PC) // %o7/r15 holds the return address
	v.nextBranchDisp = disp
}

// trap implements "ta" (trap always): when traps are enabled it vectors
// to TBR and disables further traps until the handler executes "rett";
// with traps disabled it has no effect, mirroring a masked interrupt.
func (v *VM) trap() error {
	if !v.CPU.TrapsOn {
		return nil
	}
	v.CPU.TrapsOn = false
	v.nextBranchDisp = int32(v.CPU.TBR) - int32(v.CPU.PC)
	return nil
}
