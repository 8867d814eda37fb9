package namer

// divisionNames maps the 2-digit product division to its canonical name.
var divisionNames = map[string]string{
	"01": "Mascotas, Animales Domésticos y Accesorios",
	"10": "Material Vivo Animal y Vegetal",
	"11": "Material Mineral y Tejidos No Comestibles",
	"12": "Productos Químicos y Plásticos",
	"13": "Resina, Hule y Elastómeros",
	"14": "Materiales de Papel y Cartón",
	"15": "Materiales Combustibles y Lubricantes",
	"20": "Minería y Perforación de Pozos",
	"21": "Agricultura, Silvicultura y Jardinería",
	"22": "Construcción y Edificación",
	"23": "Manufactura y Procesamiento Industrial",
	"24": "Material de Embalaje y Recipientes",
	"25": "Vehículos y Accesorios de Transporte",
	"26": "Generación y Distribución de Energía",
	"27": "Herramientas y Maquinaria en General",
	"30": "Componentes para Construcción y Obras Civiles",
	"31": "Componentes de Manufactura",
	"32": "Componentes y Suministros Electrónicos",
	"39": "Suministros y Accesorios Eléctricos",
	"40": "Distribución y Acondicionamiento Industrial",
	"41": "Laboratorio, Medida y Observación",
	"42": "Equipo Médico y Suministros",
	"43": "Tecnologías de Información y Telecomunicaciones",
	"44": "Equipos y Suministros de Oficina",
	"45": "Impresión, Fotografía y Audiovisuales",
	"46": "Defensa, Seguridad y Vigilancia",
	"47": "Equipos y Suministros de Limpieza",
	"48": "Maquinaria y Equipos para Servicios",
	"49": "Recreación y Deportes",
	"50": "Alimentos, Bebidas y Tabaco",
	"51": "Medicamentos y Productos Farmacéuticos",
	"52": "Artículos Domésticos y Bienes Personales",
	"53": "Ropa, Maletas y Aseo Personal",
	"54": "Relojería, Joyería y Piedras Preciosas",
	"55": "Productos Publicados y Medios",
	"56": "Muebles y Mobiliario",
	"60": "Artes, Artesanías y Equipo Educativo",
	"64": "Servicios de Seguros y Pensiones",
	"70": "Servicios de Limpieza, Agricultura y Minería",
	"71": "Servicios de Minas, Petróleo y Gas",
	"72": "Servicios de Edificación y Mantenimiento",
	"73": "Servicios de Apoyo y Fabricación Industrial",
	"76": "Servicios de Limpieza y Gestión de Residuos",
	"77": "Servicios de Medio Ambiente",
	"78": "Servicios de Transporte y Almacenaje",
	"80": "Servicios de Gestión y Administrativos",
	"81": "Servicios de Ingeniería e Investigación",
	"82": "Servicios Editoriales y de Publicidad",
	"83": "Servicios Públicos y Sector Público",
	"84": "Servicios Financieros e Institucionales",
	"85": "Servicios de Salud",
	"86": "Servicios Educativos y Formación",
	"90": "Servicios de Viajes, Alojamiento y Entretenimiento",
	"91": "Servicios Personales y Domésticos",
	"92": "Servicios de Defensa y Seguridad Nacional",
	"93": "Servicios Políticos y Asuntos Exteriores",
	"94": "Organizaciones y Clubes",
	"95": "Terrenos, Edificios y Estructuras",
}

// DivisionName returns the canonical name of a 2-digit division.
func DivisionName(division string) (string, bool) {
	name, ok := divisionNames[division]
	return name, ok
}
