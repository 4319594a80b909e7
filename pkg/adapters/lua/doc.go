// Package lua builds rule trees from Lua scripts.
//
// A script returns a rule. The following globals are available:
//
//	cube() tetrahedron() quad() icosahedron() icosphere(n)
//	rule()                     -- empty group
//	translate(x, y, z) tx(d) ty(d) tz(d)
//	scale(s) scale(x, y, z)
//	replicate(n, step)
//	deferred(fn)               -- fn() is called at every occurrence
//
// Rules have the methods r:push(a, b, ...) and r:tf(t); transforms have
// t:andthen(u), which applies t first and u second. Methods return new
// values and leave the receiver unchanged.
//
// For example:
//
//	local function tile(depth)
//	  local r = rule():push(cube():tf(scale(0.4)):tf(translate(0.25, 0.25, 0)))
//	  if depth > 0 then
//	    local child = deferred(function() return tile(depth - 1) end)
//	    r = r:push(child:tf(scale(0.5)):tf(translate(0.25, -0.25, 0)))
//	  end
//	  return r
//	end
//	return tile(4)
//
// Deferred functions run during evaluation, outside the script's own call.
// Errors they raise are collected and reported by Script.Err; the failing
// occurrence contributes nothing to the output. Recursion through deferred
// functions has no built-in limit; scripts bound it themselves.
package lua
