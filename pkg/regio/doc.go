// Package regio reads and writes register fields by path.
//
// A read or write is first described by a spec. Building the spec
// validates the path set against the group, resolves every path, groups
// the paths by register and checks read-only and write-only policies.
// Nothing touches the bus until the spec's sender runs.
//
//	spec, err := regio.NewReadSpec(uart, "ctrl.enable", "status")
//	res, err := async.SyncWait(ctx, regio.Read(spec))
//	v, err := res.Get("enable")
//
// Each distinct register costs exactly one bus transaction, however many
// of its fields were named, and transactions on different registers run
// concurrently.
//
// A read result converts into a write spec covering the same fields,
// which makes read-modify-write a pipeline:
//
//	regio.ReadThen(spec, func(w *regio.WriteSpec) error {
//		f, err := w.Field("count")
//		if err != nil {
//			return err
//		}
//		f.Add(1)
//		return nil
//	})
package regio
