package gofuture

// CascadeTo makes target adopt in's outcome once in completes, and
// cancelling target cancel in (spec §4.6 cascade_to(target)). Unlike
// the other combinators, CascadeTo returns nothing: target already
// exists, it is only wired, not constructed.
func CascadeTo[V any](in *Future[V], target *Future[V]) {
	target.AddListener(func(t *Future[V]) {
		if t.cell.isCancelled() {
			in.Cancel(true)
		}
	})
	in.AddListener(func(done *Future[V]) {
		if done.cell.isSuccess() {
			v, _ := done.GetNow()
			target.TrySucceed(v)
			return
		}
		propagateTerminal(done, target)
	})
}
