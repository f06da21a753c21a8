// Package registry provides an optional process-wide table mapping host
// instances to metadata about their device counterparts.
//
// The core pointer types do not need it: a ManagedPtr carries its own device
// address. The registry exists for code that obtains the two halves
// separately (an externally allocated device object, say) and wants to
// reunite them later:
//
//	registry.Register(obj, registry.Record{Address: addr, Space: accel.SpaceDevice})
//	...
//	if rec, ok := registry.Lookup(obj); ok {
//	    p := chai.FromRecord(dev, obj, rec)
//	}
//
// Tables publish lifecycle events to subscribed observers.
package registry
