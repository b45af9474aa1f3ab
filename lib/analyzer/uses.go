package analyzer

// Generation counts the live references made to one declaration of a name.
type Generation struct {
	count int
	owner *Uses
}

func (g *Generation) Count() int {
	return g.count
}

func (g *Generation) Acquire() {
	g.count++
}

// Release drops one reference. Releasing more than was acquired is a bug in
// the caller.
func (g *Generation) Release() {
	if g.count == 0 {
		panic("analyzer: released more uses than acquired")
	}
	g.count--
}

// Retire removes g from the name it belongs to once it is unused.
func (g *Generation) Retire() bool {
	if g.owner == nil {
		return false
	}
	return g.owner.Retire(g)
}

// Uses is the stack of generations of a single name. Every re-declaration
// pushes a new generation, so references made before it keep counting
// against the earlier one.
type Uses struct {
	gens []*Generation
}

func newUses() *Uses {
	return &Uses{}
}

func (u *Uses) push() *Generation {
	g := &Generation{owner: u}
	u.gens = append(u.gens, g)
	return g
}

// Current returns the newest generation.
func (u *Uses) Current() *Generation {
	if len(u.gens) == 0 {
		return u.push()
	}
	return u.gens[len(u.gens)-1]
}

// Len returns the number of generations still tracked.
func (u *Uses) Len() int {
	return len(u.gens)
}

// Count returns the use count of the generation order steps back from the
// newest one.
func (u *Uses) Count(order int) int {
	return u.gens[len(u.gens)-1-order].count
}

// Retire removes an unused generation. It reports false if g is still
// referenced or no longer tracked.
func (u *Uses) Retire(g *Generation) bool {
	if g.count != 0 {
		return false
	}
	for i, cur := range u.gens {
		if cur == g {
			u.gens = append(u.gens[:i], u.gens[i+1:]...)
			return true
		}
	}
	return false
}
