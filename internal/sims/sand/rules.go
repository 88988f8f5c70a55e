package sand

// Direction offsets returned by pick.
const (
	none  = 0
	left  = -1
	right = +1
)

// pick settles between the left and right candidates. A coin is only flipped
// when both are open.
func (e *Engine) pick(l, r bool) int {
	switch {
	case l && r:
		if e.rng.Bool() {
			return right
		}
		return left
	case l:
		return left
	case r:
		return right
	}
	return none
}

// swap exchanges the materials of two cells and marks the destination
// processed so the moved particle is not visited again this tick.
func (e *Engine) swap(row, col, toRow, toCol int) {
	g := e.grid
	from := g.Index(row, col)
	to := g.Index(toRow, toCol)
	g.cells[from].Material, g.cells[to].Material = g.cells[to].Material, g.cells[from].Material
	g.cells[to].processed = true
}

// displace moves the mover at (row, col) into the liquid directly below. The
// liquid is vented into an Empty cell beside the mover when one exists,
// leaving the mover's old cell Empty; otherwise the two simply swap.
func (e *Engine) displace(row, col int) {
	g := e.grid
	n := g.n
	vl := col > 0 && g.At(row, col-1) == Empty
	vr := col < n-1 && g.At(row, col+1) == Empty
	d := e.pick(vl, vr)
	if d == none {
		e.swap(row, col, row-1, col)
		return
	}
	here := g.Index(row, col)
	below := g.Index(row-1, col)
	vent := g.Index(row, col+d)
	g.cells[vent].Material = g.cells[below].Material
	g.cells[below].Material = g.cells[here].Material
	g.cells[here].Material = Empty
	g.cells[vent].processed = true
	g.cells[below].processed = true
}

// updateSand drops a grain straight down through anything lighter, venting
// liquids aside, and otherwise slides it diagonally down. Sand never spreads
// sideways.
func (e *Engine) updateSand(row, col int) {
	if row == 0 {
		return
	}
	g := e.grid
	below := g.At(row-1, col)
	if lighter(below, Sand) {
		if below.IsLiquid() {
			e.displace(row, col)
		} else {
			e.swap(row, col, row-1, col)
		}
		return
	}
	dl := col > 0 && lighter(g.At(row-1, col-1), Sand)
	dr := col < g.n-1 && lighter(g.At(row-1, col+1), Sand)
	if d := e.pick(dl, dr); d != none {
		e.swap(row, col, row-1, col+d)
	}
}

// updateLiquid handles Water and Oil. A liquid falls into anything lighter,
// Water venting Oil aside; when it cannot fall it prefers a diagonal drop
// over sideways flow. On the bottom row only sideways flow applies.
func (e *Engine) updateLiquid(row, col int) {
	g := e.grid
	m := g.At(row, col)
	if row > 0 {
		below := g.At(row-1, col)
		if lighter(below, m) {
			if below.IsLiquid() {
				e.displace(row, col)
			} else {
				e.swap(row, col, row-1, col)
			}
			return
		}
		dl := col > 0 && lighter(g.At(row-1, col-1), m)
		dr := col < g.n-1 && lighter(g.At(row-1, col+1), m)
		if d := e.pick(dl, dr); d != none {
			e.swap(row, col, row-1, col+d)
			return
		}
	}
	l := col > 0 && lighter(g.At(row, col-1), m)
	r := col < g.n-1 && lighter(g.At(row, col+1), m)
	if d := e.pick(l, r); d != none {
		e.swap(row, col, row, col+d)
	}
}

// updateSteam rolls for condensation, then rises into Empty cells: straight
// up, else diagonally up, else sideways. On the top row only sideways
// movement applies.
func (e *Engine) updateSteam(row, col int) {
	g := e.grid
	if e.rng.Float32() > e.condense {
		g.Set(row, col, Water)
		return
	}
	if row < g.n-1 {
		if g.At(row+1, col) == Empty {
			e.swap(row, col, row+1, col)
			return
		}
		ul := col > 0 && g.At(row+1, col-1) == Empty
		ur := col < g.n-1 && g.At(row+1, col+1) == Empty
		if d := e.pick(ul, ur); d != none {
			e.swap(row, col, row+1, col+d)
			return
		}
	}
	l := col > 0 && g.At(row, col-1) == Empty
	r := col < g.n-1 && g.At(row, col+1) == Empty
	if d := e.pick(l, r); d != none {
		e.swap(row, col, row, col+d)
	}
}
