package obj

import "nvcgo/internal/ident"

func identFromU32(v uint32) ident.Ident { return ident.Ident(v) }
