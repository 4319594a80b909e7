/*
Package domain contains the types shared by the render pipeline and its
adapters that are not geometry themselves.

It is kept free of I/O and persistence, following the same split as the rest
of the module: geometry lives in geom, mesh and rule; storage, transport and
presentation live in adapters.

# Key Types

  - LifecycleHooks: callbacks fired by a render (start, each mesh, end).
  - RenderEvent / MeshEvent: the payloads passed to those callbacks.
  - ErrSceneNotFound / ErrInvalidScene: sentinel errors used by stores and
    adapters.
*/
package domain
