package normalize

import (
	"fmt"

	"github.com/nodeadmin/dlreasoner/ontology"
)

type roleKey = ontology.RoleExpr

// RoleHierarchy is the closed RBox: the reflexive-transitive closure of
// sub-role declarations (with inverses propagated), property chains, and
// the per-role characteristic sets (spec.md §4.1 RoleClosure/PropertyChainCompile).
type RoleHierarchy struct {
	subClosure map[roleKey]map[roleKey]bool // r in subClosure[s] iff r ⊑* s
	chains     map[roleKey]map[roleKey][]roleKey

	transitiveDeclared map[roleKey]bool
	transitiveClosure  map[roleKey]bool // T*: roles whose sub-closure contains a declared-transitive role

	functional        map[roleKey]bool
	inverseFunctional map[roleKey]bool
	symmetric         map[roleKey]bool
	asymmetric        map[roleKey]bool
	reflexive         map[roleKey]bool
	irreflexive       map[roleKey]bool
}

func newRoleHierarchy() *RoleHierarchy {
	return &RoleHierarchy{
		subClosure:         make(map[roleKey]map[roleKey]bool),
		chains:             make(map[roleKey]map[roleKey][]roleKey),
		transitiveDeclared: make(map[roleKey]bool),
		transitiveClosure:  make(map[roleKey]bool),
		functional:         make(map[roleKey]bool),
		inverseFunctional:  make(map[roleKey]bool),
		symmetric:          make(map[roleKey]bool),
		asymmetric:         make(map[roleKey]bool),
		reflexive:          make(map[roleKey]bool),
		irreflexive:        make(map[roleKey]bool),
	}
}

func (h *RoleHierarchy) addSub(sub, sup roleKey) {
	if h.subClosure[sup] == nil {
		h.subClosure[sup] = make(map[roleKey]bool)
	}
	h.subClosure[sup][sub] = true
	h.subClosure[sup][sup] = true // reflexive
}

// IsSubRole reports whether sub ⊑* sup in the closed hierarchy.
func (h *RoleHierarchy) IsSubRole(sub, sup roleKey) bool {
	if sub == sup {
		return true
	}
	return h.subClosure[sup][sub]
}

// SubRolesOf returns every role (including sup itself) known to be a
// sub-role of sup.
func (h *RoleHierarchy) SubRolesOf(sup roleKey) []roleKey {
	set := h.subClosure[sup]
	out := make([]roleKey, 0, len(set)+1)
	out = append(out, sup)
	for r := range set {
		if r != sup {
			out = append(out, r)
		}
	}
	return out
}

// IsTransitive reports whether r is transitive, either by direct
// declaration or because its closure contains a declared-transitive
// sub-role (spec.md §4.1 RoleClosure: "required for completeness of
// ∀r.C through transitive sub-roles").
func (h *RoleHierarchy) IsTransitive(r roleKey) bool { return h.transitiveClosure[r] }

func (h *RoleHierarchy) IsFunctional(r roleKey) bool        { return h.functional[r] }
func (h *RoleHierarchy) IsInverseFunctional(r roleKey) bool { return h.inverseFunctional[r] }
func (h *RoleHierarchy) IsSymmetric(r roleKey) bool         { return h.symmetric[r] }
func (h *RoleHierarchy) IsAsymmetric(r roleKey) bool        { return h.asymmetric[r] }
func (h *RoleHierarchy) IsReflexive(r roleKey) bool         { return h.reflexive[r] }

// ReflexiveRoles returns every role declared Reflexive, for the engine's
// per-node self-edge materialization (spec.md §4.1).
func (h *RoleHierarchy) ReflexiveRoles() []roleKey {
	out := make([]roleKey, 0, len(h.reflexive))
	for r := range h.reflexive {
		out = append(out, r)
	}
	return out
}
func (h *RoleHierarchy) IsIrreflexive(r roleKey) bool       { return h.irreflexive[r] }

// ChainTargets returns every super-role s such that left1∘left2 ⊑ s.
func (h *RoleHierarchy) ChainTargets(left1, left2 roleKey) []roleKey {
	if m := h.chains[left1]; m != nil {
		return m[left2]
	}
	return nil
}

func (h *RoleHierarchy) addChain(left1, left2, right roleKey) {
	if h.chains[left1] == nil {
		h.chains[left1] = make(map[roleKey][]roleKey)
	}
	h.chains[left1][left2] = append(h.chains[left1][left2], right)
}

// buildRoleHierarchy computes RoleClosure from the ontology's RBox axioms.
func buildRoleHierarchy(o *ontology.Ontology) *RoleHierarchy {
	h := newRoleHierarchy()

	declaredSub := map[roleKey][]roleKey{}
	addDeclared := func(sub, sup roleKey) {
		declaredSub[sup] = append(declaredSub[sup], sub)
		// inverses propagate symmetrically: subRole(r,s) ⇒ subRole(r⁻,s⁻)
		declaredSub[sup.Inv()] = append(declaredSub[sup.Inv()], sub.Inv())
	}

	for _, ax := range o.Axioms(ontology.AxSubObjectPropertyOf) {
		addDeclared(ax.Prop, ax.Prop2)
	}
	for _, ax := range o.Axioms(ontology.AxEquivalentObjectProperties) {
		for i := range ax.Props {
			for j := range ax.Props {
				if i != j {
					addDeclared(ax.Props[i], ax.Props[j])
				}
			}
		}
	}
	for _, ax := range o.Axioms(ontology.AxInverseProperties) {
		addDeclared(ax.Prop, ax.Prop2.Inv())
		addDeclared(ax.Prop2, ax.Prop.Inv())
	}

	// Reflexive-transitive closure via repeated relaxation (role graphs
	// are small compared to the tableau, so a simple fixed-point pass
	// is sufficient — no general-purpose shortest-path library needed).
	changed := true
	for sup, subs := range declaredSub {
		for _, s := range subs {
			h.addSub(s, sup)
		}
	}
	for changed {
		changed = false
		for _, subset := range h.subClosure {
			for sub := range subset {
				for next := range h.subClosure[sub] {
					if !subset[next] {
						subset[next] = true
						changed = true
					}
				}
			}
		}
	}

	for _, ax := range o.Axioms(ontology.AxTransitive) {
		h.transitiveDeclared[ax.Prop] = true
		h.transitiveDeclared[ax.Prop.Inv()] = true
	}
	for _, ax := range o.Axioms(ontology.AxSymmetric) {
		h.symmetric[ax.Prop] = true
		h.symmetric[ax.Prop.Inv()] = true
	}
	for _, ax := range o.Axioms(ontology.AxAsymmetric) {
		h.asymmetric[ax.Prop] = true
	}
	for _, ax := range o.Axioms(ontology.AxReflexive) {
		h.reflexive[ax.Prop] = true
	}
	for _, ax := range o.Axioms(ontology.AxIrreflexive) {
		h.irreflexive[ax.Prop] = true
	}
	for _, ax := range o.Axioms(ontology.AxFunctional) {
		h.functional[ax.Prop] = true
	}
	for _, ax := range o.Axioms(ontology.AxInverseFunctional) {
		h.inverseFunctional[ax.Prop] = true
	}

	// T*: roles whose closure (this role plus every declared sub-role)
	// contains a declared-transitive role.
	allRoles := map[roleKey]bool{}
	for sup, subset := range h.subClosure {
		allRoles[sup] = true
		for r := range subset {
			allRoles[r] = true
		}
	}
	for r := range h.transitiveDeclared {
		allRoles[r] = true
	}
	for r := range allRoles {
		if h.transitiveDeclared[r] {
			h.transitiveClosure[r] = true
			continue
		}
		for sub := range h.subClosure[r] {
			if h.transitiveDeclared[sub] {
				h.transitiveClosure[r] = true
				break
			}
		}
	}

	for k, ax := range o.Axioms(ontology.AxPropertyChain) {
		chain := ax.ChainLeft
		if len(chain) == 1 {
			h.addChain(chain[0], chain[0], ax.ChainRight)
			continue
		}
		// Fold an n-ary chain r1∘..∘rn ⊑ s left to right through fresh
		// intermediate roles: r1∘r2 ⊑ m1, m1∘r3 ⊑ m2, …, m(n-2)∘rn ⊑ s,
		// so only a full r1…rn path yields an s-edge.
		prev := chain[0]
		for i := 1; i+1 < len(chain); i++ {
			mid := roleKey{Prop: o.Interner.Intern(fmt.Sprintf("_:chain%d/%d", k, i))}
			h.addChain(prev, chain[i], mid)
			prev = mid
		}
		h.addChain(prev, chain[len(chain)-1], ax.ChainRight)
	}
	// A declared-transitive role r compiles to the chain r∘r ⊑ r.
	for r := range h.transitiveDeclared {
		h.addChain(r, r, r)
	}

	return h
}
